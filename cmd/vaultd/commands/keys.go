package commands

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ed25519"
)

func newKeysCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the private key used to sign transactions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "generate",
			Short: "Generate a new private key",
			Long: `Generate a new private key and write its binary content to the key file.
This command fails if the private key file already exists.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := generateKey(st.conf.Key)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), key.PublicKey().Address())
				return nil
			},
		},
		&cobra.Command{
			Use:   "address",
			Short: "Print the address of the private key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := readKey(st.conf.Key)
				if err != nil {
					return err
				}
				addr := key.PublicKey().Address()
				fmt.Fprintf(cmd.OutOrStdout(), "hex\t%s\nbech32\t%s\n", addr, addr.Bech32())
				return nil
			},
		},
	)
	return cmd
}

func generateKey(path string) (*crypto.PrivateKey, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		// The key must be deleted manually to not lose it by accident.
		return nil, errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists", path)
	}
	key := crypto.GenPrivKeyEd25519()
	if err := writeFile(path, key.Ed25519, false); err != nil {
		return nil, err
	}
	return key, nil
}

func readKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read private key: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}
