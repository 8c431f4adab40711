package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func peersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "peers",
		Short: "List imported peers",
		RunE: func(cmd *cobra.Command, args []string) error {
			peers, err := wire.Exchange.Peers()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(peers) == 0 {
				fmt.Fprintln(out, "No peers imported.")
				return nil
			}
			for _, p := range peers {
				fmt.Fprintf(out, "%s  created %s\n", p.KeyID, p.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}
