package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"slinger/internal/domain"
)

// seal --to <keyid>: build a packet for an imported peer.
func sealCmd() *cobra.Command {
	var (
		to         string
		username   string
		message    string
		attachPath string
		mimeType   string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt and sign a packet for an imported peer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			recipient, err := domain.ParseKeyID(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			req := domain.SealRequest{Recipient: recipient}
			req.SenderUsername = domain.Username(username)
			req.Message = message
			req.MimeType = mimeType
			if attachPath != "" {
				data, err := os.ReadFile(attachPath)
				if err != nil {
					return err
				}
				req.Attachment = data
				req.AttachmentName = filepath.Base(attachPath)
				if !cmd.Flags().Changed("mime") {
					req.MimeType = "application/octet-stream"
				}
			}

			pkt, err := wire.Exchange.Seal(cmd.Context(), passphrase, req)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, pkt)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient key id (base58)")
	cmd.Flags().StringVar(&username, "username", "", "name shown to the recipient")
	cmd.Flags().StringVarP(&message, "message", "m", "", "message text")
	cmd.Flags().StringVar(&attachPath, "attach", "", "file to attach")
	cmd.Flags().StringVar(&mimeType, "mime", "text/plain", "MIME type; an attachment without --mime is application/octet-stream")
	cmd.Flags().StringVarP(&output, "output", "o", "", "packet file (default stdout)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
