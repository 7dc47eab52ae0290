package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the local signing key thumbprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			tp, err := wire.Identity.Thumbprint(passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Thumbprint: %s\n", tp)
			return nil
		},
	}
}
