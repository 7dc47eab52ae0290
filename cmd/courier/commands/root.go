package commands

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"courier/internal/app"
	"courier/internal/relay"
)

var (
	home       string
	passphrase string
	relayURL   string
	hashName   string

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "courier",
		Short: "Signed address book entries and an encrypted blob relay",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".courier")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			var err error
			wire, err = app.NewWire(app.Config{
				Home:     home,
				RelayURL: relayURL,
				Hash:     hashName,
			})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.courier)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&hashName, "hash", "", "hash algorithm (SHA1, SHA256, SHA384, SHA512)")

	root.AddCommand(initCmd(), fingerprintCmd(), publishCmd(), fetchCmd(), sendCmd(), purgeCmd())
	return root.Execute()
}

// requireRelay returns the relay client or a usage error when --relay was
// not given.
func requireRelay() (*relay.Client, error) {
	if wire.Relay == nil {
		return nil, errors.New("this command needs --relay")
	}
	return wire.Relay, nil
}
