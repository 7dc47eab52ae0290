package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"courier/internal/domain"
)

func sendCmd() *cobra.Command {
	var lifetimeMinutes int64
	cmd := &cobra.Command{
		Use:   "send <file>",
		Short: "Upload an encrypted payload blob to the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := requireRelay()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			lifetime := domain.LifetimeUnlimited
			if lifetimeMinutes > 0 {
				lifetime = time.Duration(lifetimeMinutes) * time.Minute
			}
			loc, err := rc.UploadBlob(cmd.Context(), f, info.Size(), lifetime)
			if err != nil {
				return err
			}
			fmt.Printf("Blob stored at %s\n", loc)
			return nil
		},
	}
	cmd.Flags().Int64Var(&lifetimeMinutes, "lifetime", 0, "blob lifetime in minutes (0 = unlimited)")
	return cmd
}
