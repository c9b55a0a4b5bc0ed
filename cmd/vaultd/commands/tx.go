package commands

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x/multisig"
	"github.com/spf13/cobra"
)

func newTxCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Sign and send transactions",
	}
	cmd.AddCommand(
		newSubmitCmd(st),
		st.txIDCmd("approve", "Approve a transaction", func(id uint64) vault.Msg { return &multisig.ApproveMsg{TxID: id} }),
		st.txIDCmd("revoke", "Revoke an approval", func(id uint64) vault.Msg { return &multisig.RevokeMsg{TxID: id} }),
		st.txIDCmd("execute", "Execute an approved transaction", func(id uint64) vault.Msg { return &multisig.ExecuteMsg{TxID: id} }),
		newDepositCmd(st),
		newGovernCmd(st),
	)
	return cmd
}

// send signs the message with the configured key and prints the result.
func (st *state) send(cmd *cobra.Command, msg vault.Msg) error {
	key, err := readKey(st.conf.Key)
	if err != nil {
		return err
	}
	res, err := newNodeClient(st.conf.Node).broadcast(key, msg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "height\t%d\n", res.Height)
	for _, t := range res.Tags {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.Key, t.Value)
	}
	return nil
}

func newSubmitCmd(st *state) *cobra.Command {
	var (
		destination string
		value       uint64
		method      string
		payload     string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new wallet transaction",
		Long: `Submit a transaction that the owners must approve. Without a method the
value is transferred to the destination. With a method the destination
contract is called.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := vault.ParseAddress(destination)
			if err != nil {
				return errors.Wrap(err, "destination")
			}
			raw, err := hex.DecodeString(payload)
			if err != nil {
				return errors.Wrap(errors.ErrInput, "payload must be hex encoded")
			}
			return st.submit(cmd, &multisig.SubmitMsg{
				Destination: dest,
				Value:       value,
				Method:      method,
				Payload:     raw,
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&destination, "destination", "", "destination address")
	fl.Uint64Var(&value, "value", 0, "value moved to the destination")
	fl.StringVar(&method, "method", "", "contract method to call")
	fl.StringVar(&payload, "payload", "", "hex encoded call payload")
	return cmd
}

// submit sends the submit message and prints the id of the created
// transaction.
func (st *state) submit(cmd *cobra.Command, msg *multisig.SubmitMsg) error {
	key, err := readKey(st.conf.Key)
	if err != nil {
		return err
	}
	res, err := newNodeClient(st.conf.Node).broadcast(key, msg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "txid\t%d\nheight\t%d\n", orm.DecodeSequence(res.Data), res.Height)
	return nil
}

func (st *state) txIDCmd(use, short string, build func(uint64) vault.Msg) *cobra.Command {
	return &cobra.Command{
		Use:   use + " TXID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "transaction id %q", args[0])
			}
			return st.send(cmd, build(id))
		},
	}
}

func newDepositCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit AMOUNT",
		Short: "Move value from the key account to the wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "amount %q", args[0])
			}
			key, err := readKey(st.conf.Key)
			if err != nil {
				return err
			}
			return st.send(cmd, &multisig.DepositMsg{
				Source: key.PublicKey().Address(),
				Amount: amount,
			})
		},
	}
}

// governance actions build a wallet message from command arguments.
var governanceActions = map[string]struct {
	args  int
	usage string
	build func(args []string) (multisig.Action, error)
}{
	"add-owner": {1, "ADDRESS", func(args []string) (multisig.Action, error) {
		addr, err := vault.ParseAddress(args[0])
		return &multisig.AddOwnerMsg{Owner: addr}, err
	}},
	"remove-owner": {1, "ADDRESS", func(args []string) (multisig.Action, error) {
		addr, err := vault.ParseAddress(args[0])
		return &multisig.RemoveOwnerMsg{Owner: addr}, err
	}},
	"replace-owner": {2, "OLD NEW", func(args []string) (multisig.Action, error) {
		old, err := vault.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		replacement, err := vault.ParseAddress(args[1])
		return &multisig.ReplaceOwnerMsg{Old: old, New: replacement}, err
	}},
	"change-requirement": {1, "REQUIRED", func(args []string) (multisig.Action, error) {
		n, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "required %q", args[0])
		}
		return &multisig.ChangeRequirementMsg{Required: uint32(n)}, nil
	}},
	"change-execution-delay": {1, "DURATION", func(args []string) (multisig.Action, error) {
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "delay %q", args[0])
		}
		return &multisig.ChangeExecutionDelayMsg{Delay: vault.AsUnixDuration(d)}, nil
	}},
	"change-upgrade-delay": {1, "DURATION", func(args []string) (multisig.Action, error) {
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "delay %q", args[0])
		}
		return &multisig.ChangeUpgradeDelayMsg{Delay: vault.AsUnixDuration(d)}, nil
	}},
	"propose-upgrade": {1, "CODE", func(args []string) (multisig.Action, error) {
		return &multisig.ProposeUpgradeMsg{Code: []byte(args[0])}, nil
	}},
	"upgrade": {0, "", func(args []string) (multisig.Action, error) {
		return &multisig.UpgradeMsg{}, nil
	}},
}

func newGovernCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "govern",
		Short: "Submit a wallet governance transaction",
		Long: `Submit a transaction addressed to the wallet itself. Once approved and
executed, the governance action is applied.`,
	}
	for name, a := range governanceActions {
		a := a
		cmd.AddCommand(&cobra.Command{
			Use:   name + " " + a.usage,
			Short: "Submit the " + name + " action",
			Args:  cobra.ExactArgs(a.args),
			RunE: func(cmd *cobra.Command, args []string) error {
				action, err := a.build(args)
				if err != nil {
					return err
				}
				payload, err := multisig.EncodeAction(action)
				if err != nil {
					return err
				}
				return st.submit(cmd, &multisig.SubmitMsg{
					Destination: multisig.SelfAddress(),
					Payload:     payload,
				})
			},
		})
	}
	return cmd
}
