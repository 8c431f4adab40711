package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase the local identity keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("reset destroys the identity; pass --yes to confirm")
			}
			if err := wire.Identity.Reset(passphrase); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Identity erased.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm erasing the identity")
	return cmd
}
