package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func passwdCmd() *cobra.Command {
	var newPassphrase string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the passphrase protecting the private keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if err := wire.Identity.ChangePassphrase(passphrase, newPassphrase); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Passphrase changed.")
			return nil
		},
	}
	cmd.Flags().StringVar(&newPassphrase, "new-passphrase", "", "replacement passphrase")
	_ = cmd.MarkFlagRequired("new-passphrase")
	return cmd
}
