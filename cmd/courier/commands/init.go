package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a new endpoint identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tp, err := wire.Identity.Generate(passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Identity created. Signing key thumbprint: %s\n", tp)
			return nil
		},
	}
}
