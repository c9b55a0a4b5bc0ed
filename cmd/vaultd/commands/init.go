package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/multisig"
	"github.com/spf13/cobra"
)

const defaultConfigFile = `# vaultd configuration. Every value can be overwritten with a VAULTD_
# prefixed environment variable, for example VAULTD_HTTP.
log_level: info
db: data/vault.db
genesis: genesis.json
http: localhost:8080
redis:
  # Set the address to publish committed events to a Redis stream.
  addr: ""
  stream: vault:events
  max_len: 10000
node: http://localhost:8080
key: key.priv
`

func newInitCmd(st *state) *cobra.Command {
	var (
		chainID   string
		owners    []string
		required  uint32
		execDelay time.Duration
		upgDelay  time.Duration
		funds     uint64
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the genesis file declaring the wallet",
		Long: `Create the genesis and configuration files in the home directory.

Existing files are not overwritten unless --force is used. Delays that are
not declared are taken from the chain configuration defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gw := multisig.GenesisWallet{Required: required}
			for _, o := range owners {
				addr, err := vault.ParseAddress(o)
				if err != nil {
					return errors.Wrapf(err, "owner %q", o)
				}
				gw.Owners = append(gw.Owners, addr)
			}
			if cmd.Flags().Changed("execution-delay") {
				d := vault.AsUnixDuration(execDelay)
				gw.ExecutionDelay = &d
			}
			if cmd.Flags().Changed("upgrade-delay") {
				d := vault.AsUnixDuration(upgDelay)
				gw.UpgradeDelay = &d
			}
			gen, err := buildGenesis(chainID, time.Now(), gw, funds)
			if err != nil {
				return err
			}
			raw, err := json.MarshalIndent(gen, "", "  ")
			if err != nil {
				return errors.Wrap(errors.ErrInput, err.Error())
			}

			if err := os.MkdirAll(st.conf.Home, 0700); err != nil {
				return errors.Wrapf(errors.ErrInput, "home directory: %s", err)
			}
			if err := writeFile(st.conf.Genesis, raw, force); err != nil {
				return err
			}
			confPath := filepath.Join(st.conf.Home, "config.yaml")
			if _, err := os.Stat(confPath); os.IsNotExist(err) {
				if err := writeFile(confPath, []byte(defaultConfigFile), false); err != nil {
					return err
				}
			}
			st.logger.Info("genesis written", "path", st.conf.Genesis, "chain_id", chainID)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&chainID, "chain-id", "vault-local", "chain identifier")
	fl.StringArrayVar(&owners, "owner", nil, "wallet owner address, at least two are required")
	fl.Uint32Var(&required, "required", 2, "number of approvals required to execute a transaction")
	fl.DurationVar(&execDelay, "execution-delay", time.Hour, "time between reaching the threshold and execution")
	fl.DurationVar(&upgDelay, "upgrade-delay", 24*time.Hour, "time between proposing and applying an upgrade")
	fl.Uint64Var(&funds, "funds", 0, "initial balance of the wallet")
	fl.BoolVar(&force, "force", false, "overwrite an existing genesis file")
	return cmd
}

// buildGenesis returns a validated genesis with the wallet declared.
func buildGenesis(chainID string, now time.Time, gw multisig.GenesisWallet, funds uint64) (*app.Genesis, error) {
	w := multisig.Wallet{Owners: gw.Owners, Required: gw.Required}
	if err := w.Validate(); err != nil {
		return nil, errors.Wrap(err, "wallet")
	}
	wallet, err := json.Marshal(gw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	gen := &app.Genesis{
		ChainID:     chainID,
		GenesisTime: vault.AsUnixTime(now),
		AppState:    vault.Options{"multisig": wallet},
	}
	if funds > 0 {
		accounts, err := json.Marshal([]cash.GenesisAccount{
			{Address: multisig.SelfAddress(), Balance: funds},
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		gen.AppState["cash"] = accounts
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return gen, nil
}

func writeFile(path string, content []byte, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Wrapf(errors.ErrDuplicate, "file %q already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrapf(errors.ErrInput, "directory: %s", err)
	}
	if err := ioutil.WriteFile(path, content, 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "write %q: %s", path, err)
	}
	return nil
}
