package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <location>",
		Short: "Fetch and verify an address book entry",
		Long: "Fetch a published entry from a URL or file path, verify its " +
			"signature, and print the endpoint's thumbprint. When the location " +
			"carries a #fragment, the endpoint's signing key must match it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := wire.Resolver.DownloadEndpoint(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Verified endpoint.\n  Signing key thumbprint:    %s\n  Encryption key thumbprint: %s\n",
				wire.Crypto.Thumbprint(ep.SigningKey),
				wire.Crypto.Thumbprint(ep.EncryptionKey))
			return nil
		},
	}
}
