package commands

import (
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the packed public key bundle for a peer to import",
		RunE: func(cmd *cobra.Command, args []string) error {
			packed, err := wire.Directory.PackedPublicKeyBundle()
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, packed)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
