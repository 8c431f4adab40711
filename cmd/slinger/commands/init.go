package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate identity keys and store them securely",
		Long: "Generate the encryption and signing key pairs, or check the passphrase\n" +
			"against the identity already stored in the data dir.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			st, err := wire.Identity.Open(wire.Config.RSABits, passphrase)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if st.Created() {
				fmt.Fprintln(out, "Identity created.")
			} else {
				fmt.Fprintln(out, "Identity unlocked.")
			}
			fmt.Fprintf(out, "Key ID: %s\n", st.KeyID())
			return nil
		},
	}
}
