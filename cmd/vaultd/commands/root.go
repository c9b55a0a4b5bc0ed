/*
Package commands implements the vaultd command line. The same binary runs
the node (init, start) and acts as its client (keys, tx, query).

Every flag can be set in $HOME/.vaultd/config.yaml or with a VAULTD_
prefixed environment variable, for example VAULTD_HTTP or
VAULTD_REDIS_ADDR.
*/
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

// state is shared by all commands of a single invocation.
type state struct {
	v      *viper.Viper
	conf   Config
	logger log.Logger
}

// NewRootCmd returns the vaultd command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	st := &state{v: viper.New()}

	root := &cobra.Command{
		Use:   "vaultd",
		Short: "Multi-owner threshold wallet node and client",
		Long: `vaultd runs a ledger hosting a multi-owner wallet. Owners submit
transactions, approve them and execute them once enough approvals were
collected and the execution delay elapsed.

  vaultd init --owner ADDR --owner ADDR --required 2
  vaultd start
  vaultd tx submit --destination ADDR --value 100
  vaultd query wallet`,
		SilenceUsage:      true,
		PersistentPreRunE: st.load,
	}

	fl := root.PersistentFlags()
	fl.String("home", defaultHome(), "directory to store files under")
	fl.String("config", "", "config file (default is $HOME/.vaultd/config.yaml)")
	fl.String("log-level", "info", "log level: debug, info, error or none")
	fl.String("node", "http://localhost:8080", "API address of the node used by client commands")
	fl.String("key", "key.priv", "private key file, relative to the home directory")
	st.bind(root, "home", "home")
	st.bind(root, "node", "node")
	st.bind(root, "key", "key")
	st.bind(root, "config", "config")
	st.bind(root, "log_level", "log-level")

	root.AddCommand(
		newInitCmd(st),
		newStartCmd(st),
		newKeysCmd(st),
		newTxCmd(st),
		newQueryCmd(st),
		newVersionCmd(),
	)
	return root
}

func defaultHome() string {
	return filepath.Join(os.ExpandEnv("$HOME"), ".vaultd")
}

// load reads the configuration and creates the logger before any command
// runs.
func (st *state) load(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(st.v)
	if err != nil {
		return err
	}
	st.conf = conf

	logger := log.NewTMLogger(log.NewSyncWriter(cmd.ErrOrStderr()))
	level, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	st.logger = log.NewFilter(logger, level).With("module", "vaultd")
	return nil
}

// bind makes the flag value visible in the configuration under given key.
func (st *state) bind(cmd *cobra.Command, key, flag string) {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(flag)
	}
	if err := st.v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), vault.Version())
		},
	}
}
