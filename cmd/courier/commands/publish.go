package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"courier/internal/addressbook"
)

func publishCmd() *cobra.Command {
	var (
		name string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Encode and publish a signed address book entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && out == "" {
				return errors.New("need --name (publish to relay) or --out (write to file)")
			}
			own, err := wire.Identity.Load(passphrase)
			if err != nil {
				return err
			}
			entry, err := addressbook.Encode(wire.Crypto, own)
			if err != nil {
				return err
			}
			tp := wire.Crypto.Thumbprint(own.SigningKey)

			if out != "" {
				if err := addressbook.WriteEntry(out, entry); err != nil {
					return err
				}
				fmt.Printf("Entry written to %s\nPinned lookup: %s#%s\n", out, out, tp)
			}
			if name != "" {
				rc, err := requireRelay()
				if err != nil {
					return err
				}
				if _, err := rc.PublishEntry(cmd.Context(), name, entry); err != nil {
					return err
				}
				fmt.Printf("Entry published. Pinned lookup: %s\n", rc.EntryURL(name, tp))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "entry name on the relay")
	cmd.Flags().StringVar(&out, "out", "", "write the entry to this file instead")
	return cmd
}
