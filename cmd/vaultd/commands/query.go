package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iov-one/vault/errors"
	"github.com/spf13/cobra"
)

func newQueryCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read the committed state of the node",
	}
	cmd.AddCommand(
		st.queryCmd("wallet", "Print the wallet owners, threshold and delays", 0, func(args []string) string {
			return "/wallet"
		}),
		st.queryCmd("transactions", "Print all wallet transactions with their approvals", 0, func(args []string) string {
			return "/transactions"
		}),
		st.queryCmd("transaction TXID", "Print a single wallet transaction", 1, func(args []string) string {
			return "/transactions/" + args[0]
		}),
		st.queryCmd("balance ADDRESS", "Print the balance of an account", 1, func(args []string) string {
			return "/balance/" + args[0]
		}),
		st.queryCmd("nonce ADDRESS", "Print the next signature nonce of an account", 1, func(args []string) string {
			return "/nonce/" + args[0]
		}),
	)
	return cmd
}

func (st *state) queryCmd(use, short string, nargs int, path func(args []string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := newNodeClient(st.conf.Node).get(path(args), nil)
			if err != nil {
				return err
			}
			var out bytes.Buffer
			if err := json.Indent(&out, raw, "", "  "); err != nil {
				return errors.Wrapf(errors.ErrInput, "invalid response: %s", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
}
