package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"slinger/internal/domain"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print identity key id and verification phrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := wire.Directory.DisplayKeyID()
			if err != nil {
				return err
			}
			created, err := wire.Directory.CreationDate()
			if err != nil {
				return err
			}
			bits, err := wire.Directory.PrivateKeySize(domain.Encryption)
			if err != nil {
				return err
			}
			phrase, err := wire.Directory.VerificationPhrase()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key ID:  %s\n", id)
			fmt.Fprintf(out, "Created: %s\n", created.Format(time.RFC3339))
			fmt.Fprintf(out, "Size:    %d bits\n", bits)
			fmt.Fprintf(out, "Phrase:  %s\n", phrase)
			return nil
		},
	}
}
