package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/notify"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/code"
	"github.com/iov-one/vault/x/multisig"
	"github.com/iov-one/vault/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "vault-test-1"

var genesisTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type account struct {
	key   *crypto.PrivateKey
	nonce int64
}

func newAccount() *account {
	return &account{key: crypto.GenPrivKeyEd25519()}
}

func (a *account) address() vault.Address {
	return a.key.PublicKey().Address()
}

type recordingNotifier struct {
	events []app.Event
}

func (n *recordingNotifier) Notify(ctx context.Context, e app.Event) error {
	n.events = append(n.events, e)
	return nil
}

type recordingStream struct {
	entries []map[string]interface{}
}

func (r *recordingStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	r.entries = append(r.entries, a.Values.(map[string]interface{}))
	return redis.NewStringResult("1-0", nil)
}

type testNode struct {
	t        *testing.T
	ledger   *app.Ledger
	now      time.Time
	notifier *recordingNotifier
}

func newTestNode(t *testing.T, metrics *utils.Metrics, owners []*account, balances map[string]uint64, contracts []code.GenesisContract) *testNode {
	t.Helper()

	ledger, err := NewLedger("", metrics, log.NewNopLogger())
	require.NoError(t, err)
	n := &testNode{
		t:        t,
		ledger:   ledger,
		now:      genesisTime,
		notifier: &recordingNotifier{},
	}
	ledger.WithClock(func() time.Time { return n.now })
	ledger.Subscribe(n.notifier)

	var accts []cash.GenesisAccount
	for addr, balance := range balances {
		a, err := vault.ParseAddress(addr)
		require.NoError(t, err)
		accts = append(accts, cash.GenesisAccount{Address: a, Balance: balance})
	}
	addrs := make([]vault.Address, len(owners))
	for i, o := range owners {
		addrs[i] = o.address()
	}
	execDelay := vault.AsUnixDuration(time.Hour)
	gen := &app.Genesis{
		ChainID:     chainID,
		GenesisTime: vault.AsUnixTime(genesisTime),
		AppState: vault.Options{
			"cash": mustJSON(t, accts),
			"code": mustJSON(t, contracts),
			"multisig": mustJSON(t, multisig.GenesisWallet{
				Owners:         addrs,
				Required:       2,
				ExecutionDelay: &execDelay,
			}),
		},
	}
	require.NoError(t, ledger.InitChain(context.Background(), gen, Initializers()))
	return n
}

func mustJSON(t testing.TB, v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

// deliver signs the message with the next nonce of the signer. The nonce
// is consumed only if the transaction succeeds.
func (n *testNode) deliver(signer *account, msg vault.Msg) (*app.Receipt, error) {
	n.t.Helper()
	tx := app.NewTx(msg)
	require.NoError(n.t, tx.Sign(signer.key, chainID, signer.nonce))
	raw, err := tx.Marshal()
	require.NoError(n.t, err)
	res, err := n.ledger.DeliverRaw(context.Background(), raw)
	if err == nil {
		signer.nonce++
	}
	return res, err
}

func (n *testNode) balance(addr vault.Address) uint64 {
	var balance uint64
	err := n.ledger.View(func(db vault.ReadOnlyKVStore) error {
		var err error
		balance, err = cash.NewController(cash.NewBucket()).Balance(db, addr)
		return err
	})
	require.NoError(n.t, err)
	return balance
}

func TestTimelockedTransfer(t *testing.T) {
	a, b, stranger := newAccount(), newAccount(), newAccount()
	dest := vaulttest.RandomAddr(t)
	n := newTestNode(t, nil, []*account{a, b}, map[string]uint64{
		multisig.SelfAddress().String(): 20000,
	}, nil)

	transfer := &multisig.SubmitMsg{Destination: dest, Value: 15000}
	_, err := n.deliver(stranger, transfer)
	assert.True(t, multisig.ErrNotOwner.Is(err), "%+v", err)

	res, err := n.deliver(a, transfer)
	require.NoError(t, err)
	id := orm.DecodeSequence(res.Data)
	assert.Equal(t, uint64(0), id)

	_, err = n.deliver(a, &multisig.ExecuteMsg{TxID: id})
	assert.True(t, multisig.ErrThresholdNotMet.Is(err), "%+v", err)

	_, err = n.deliver(a, &multisig.ApproveMsg{TxID: id})
	require.NoError(t, err)
	n.now = genesisTime.Add(time.Minute)
	_, err = n.deliver(b, &multisig.ApproveMsg{TxID: id})
	require.NoError(t, err)

	n.now = genesisTime.Add(time.Hour)
	_, err = n.deliver(a, &multisig.ExecuteMsg{TxID: id})
	assert.True(t, multisig.ErrTimelockNotElapsed.Is(err), "%+v", err)
	assert.Equal(t, uint64(0), n.balance(dest))

	n.now = genesisTime.Add(time.Hour + time.Minute)
	_, err = n.deliver(b, &multisig.ExecuteMsg{TxID: id})
	require.NoError(t, err)
	assert.Equal(t, uint64(15000), n.balance(dest))
	assert.Equal(t, uint64(5000), n.balance(multisig.SelfAddress()))

	_, err = n.deliver(a, &multisig.ExecuteMsg{TxID: id})
	assert.True(t, multisig.ErrAlreadyExecuted.Is(err), "%+v", err)

	// Only successful transactions are committed and announced.
	require.Len(t, n.notifier.events, 4)
	last := n.notifier.events[3]
	assert.Equal(t, "multisig/execute", last.Path)
	assert.Equal(t, "execute", last.TagValue("action"))
	assert.Equal(t, "0", last.TagValue("txid"))
	assert.Equal(t, "multisig/execute", last.TagValue(utils.PathKey))
	assert.True(t, last.Time.Equal(n.now))

	height, err := n.ledger.Height()
	require.NoError(t, err)
	assert.Equal(t, int64(5), height)
}

func TestContractCall(t *testing.T) {
	a, b := newAccount(), newAccount()
	counter := vaulttest.RandomAddr(t)
	n := newTestNode(t, nil, []*account{a, b}, map[string]uint64{
		multisig.SelfAddress().String(): 100,
	}, []code.GenesisContract{{Address: counter, Code: code.CounterCode}})

	res, err := n.deliver(b, &multisig.SubmitMsg{Destination: counter, Method: "increment", Value: 10})
	require.NoError(t, err)
	id := orm.DecodeSequence(res.Data)
	for _, o := range []*account{a, b} {
		_, err := n.deliver(o, &multisig.ApproveMsg{TxID: id})
		require.NoError(t, err)
	}
	n.now = genesisTime.Add(time.Hour)
	_, err = n.deliver(a, &multisig.ExecuteMsg{TxID: id})
	require.NoError(t, err)

	err = n.ledger.View(func(db vault.ReadOnlyKVStore) error {
		count, err := code.Counter{}.Count(db, counter)
		assert.Equal(t, uint64(1), count)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), n.balance(counter))
	assert.Equal(t, uint64(90), n.balance(multisig.SelfAddress()))
}

func TestGovernanceThroughLedger(t *testing.T) {
	a, b, c := newAccount(), newAccount(), newAccount()
	n := newTestNode(t, nil, []*account{a, b}, nil, nil)
	stream := &recordingStream{}
	n.ledger.Subscribe(notify.NewRedisStream(stream, "", 0))

	// Calling governance directly is never allowed.
	_, err := n.deliver(a, &multisig.AddOwnerMsg{Owner: c.address()})
	assert.True(t, multisig.ErrNotSelf.Is(err), "%+v", err)

	payload, err := multisig.EncodeAction(&multisig.AddOwnerMsg{Owner: c.address()})
	require.NoError(t, err)
	res, err := n.deliver(a, &multisig.SubmitMsg{Destination: multisig.SelfAddress(), Payload: payload})
	require.NoError(t, err)
	id := orm.DecodeSequence(res.Data)
	for _, o := range []*account{a, b} {
		_, err := n.deliver(o, &multisig.ApproveMsg{TxID: id})
		require.NoError(t, err)
	}
	n.now = genesisTime.Add(time.Hour)
	_, err = n.deliver(b, &multisig.ExecuteMsg{TxID: id})
	require.NoError(t, err)

	// The execution and the applied action are both published.
	last := stream.entries[len(stream.entries)-1]
	assert.Equal(t, "multisig/execute", last["path"])
	var tags []notify.Tag
	require.NoError(t, json.Unmarshal([]byte(last["tags"].(string)), &tags))
	require.True(t, len(tags) >= 5, "%v", tags)
	assert.Equal(t, notify.Tag{Key: "action", Value: "execute"}, tags[0])
	assert.Equal(t, notify.Tag{Key: "owner", Value: b.address().String()}, tags[2])
	assert.Contains(t, tags, notify.Tag{Key: "action", Value: "add_owner"})
	assert.Contains(t, tags, notify.Tag{Key: "owner", Value: c.address().String()})

	err = n.ledger.View(func(db vault.ReadOnlyKVStore) error {
		w, err := multisig.NewStore().QueryWallet(db)
		if err != nil {
			return err
		}
		assert.Equal(t, []vault.Address{a.address(), b.address(), c.address()}, w.Owners)
		return nil
	})
	require.NoError(t, err)

	// The new owner can submit right away.
	_, err = n.deliver(c, &multisig.SubmitMsg{Destination: a.address(), Value: 1})
	require.NoError(t, err)
}

func TestDepositAndMetrics(t *testing.T) {
	a, b, donor := newAccount(), newAccount(), newAccount()
	reg := prometheus.NewRegistry()
	n := newTestNode(t, utils.NewMetrics(reg), []*account{a, b}, map[string]uint64{
		donor.address().String(): 50,
	}, nil)

	_, err := n.deliver(donor, &multisig.DepositMsg{Source: donor.address(), Amount: 30})
	require.NoError(t, err)
	assert.Equal(t, uint64(30), n.balance(multisig.SelfAddress()))
	assert.Equal(t, uint64(20), n.balance(donor.address()))

	_, err = n.deliver(donor, &multisig.DepositMsg{Source: donor.address(), Amount: 30})
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg, "vault_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
