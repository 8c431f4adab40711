package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// import <file>: store a peer's packed bundle so packets can be sealed for
// and opened from them.
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a peer's packed public key bundle (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packed, err := readInput(args[0])
			if err != nil {
				return err
			}
			b, err := wire.Exchange.ImportPeer(cmd.Context(), packed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", b.KeyID)
			return nil
		},
	}
}
