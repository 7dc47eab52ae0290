package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func purgeCmd() *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Ask the relay to delete expired blobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := requireRelay()
			if err != nil {
				return err
			}
			cutoff := time.Now()
			if before != "" {
				cutoff, err = time.Parse(time.RFC3339, before)
				if err != nil {
					return fmt.Errorf("--before must be RFC 3339: %w", err)
				}
			}
			purged, err := rc.TriggerPurge(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Printf("Purged %d blob(s)\n", purged)
			return nil
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "purge blobs expired at or before this RFC 3339 time (default now)")
	return cmd
}
