package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// open <file>: verify and decrypt a packet from an imported peer.
func openCmd() *cobra.Command {
	var saveDir string
	cmd := &cobra.Command{
		Use:   "open <file>",
		Short: "Decrypt and verify a packet (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			opened, err := wire.Exchange.Open(cmd.Context(), passphrase, data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "From:    %s (%s)\n", opened.SenderUsername, opened.SenderKeyID)
			fmt.Fprintf(out, "Message: %s\n", opened.Message)
			if opened.MimeType != "" {
				fmt.Fprintf(out, "Type:    %s\n", opened.MimeType)
			}
			if opened.AttachmentName == "" {
				return nil
			}
			fmt.Fprintf(out, "Attachment: %s (%s, %d bytes)\n", opened.AttachmentName, opened.MimeType, len(opened.Attachment))
			if saveDir == "" {
				return nil
			}
			// The name comes from the sender; keep only its last element.
			name := filepath.Base(filepath.Clean(opened.AttachmentName))
			if name == "." || name == ".." || name == string(filepath.Separator) {
				return fmt.Errorf("refusing attachment name %q", opened.AttachmentName)
			}
			if err := os.MkdirAll(saveDir, 0o700); err != nil {
				return err
			}
			path := filepath.Join(saveDir, name)
			if err := os.WriteFile(path, opened.Attachment, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&saveDir, "save-attachment", "", "directory to write the attachment to")
	return cmd
}
