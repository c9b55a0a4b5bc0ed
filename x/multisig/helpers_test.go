package multisig

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/code"
)

var genesisTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type router struct {
	handlers map[string]vault.Handler
}

func (r *router) Handle(path string, h vault.Handler) {
	if r.handlers == nil {
		r.handlers = make(map[string]vault.Handler)
	}
	r.handlers[path] = h
}

// walletEnv is a wallet deployed in a memory store together with all its
// collaborators. Each call runs in a cache wrap that is written only on
// success, the same way the application processes transactions.
type walletEnv struct {
	t       testing.TB
	db      store.CacheableKVStore
	auth    *vaulttest.CtxAuth
	rt      *router
	store   *Store
	bank    cash.BaseController
	codes   code.Store
	invoker *code.Invoker
}

func newWalletEnv(t testing.TB, required uint32, execDelay, upgradeDelay time.Duration, owners ...vault.Condition) *walletEnv {
	t.Helper()

	env := &walletEnv{
		t:     t,
		db:    store.MemStore(),
		auth:  &vaulttest.CtxAuth{Key: "multisig-auth"},
		rt:    &router{},
		store: NewStore(),
		bank:  cash.NewController(cash.NewBucket()),
		codes: code.NewStore(),
	}
	env.invoker = code.NewInvoker(env.codes, env.bank)
	env.invoker.Register(code.CounterCode, code.Counter{})
	RegisterRoutes(env.rt, env.auth, env.bank, env.invoker, env.codes)

	addrs := make([]vault.Address, len(owners))
	for i, o := range owners {
		addrs[i] = o.Address()
	}
	ed := vault.AsUnixDuration(execDelay)
	ud := vault.AsUnixDuration(upgradeDelay)
	ctx := vault.WithBlockTime(context.Background(), genesisTime)
	gw := GenesisWallet{Owners: addrs, Required: required, ExecutionDelay: &ed, UpgradeDelay: &ud}
	assert.Nil(t, Deploy(ctx, env.db, env.store, env.codes, gw))
	return env
}

func (env *walletEnv) ctx(at time.Time, signers ...vault.Condition) vault.Context {
	ctx := vault.WithBlockTime(context.Background(), at)
	return env.auth.SetConditions(ctx, signers...)
}

// deliver processes the message signed by given conditions at given time.
func (env *walletEnv) deliver(at time.Time, msg vault.Msg, signers ...vault.Condition) (*vault.DeliverResult, error) {
	h, ok := env.rt.handlers[msg.Path()]
	if !ok {
		env.t.Fatalf("no handler for %q", msg.Path())
	}
	cache := env.db.CacheWrap()
	res, err := h.Deliver(env.ctx(at, signers...), cache, &vaulttest.Tx{Msg: msg})
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		env.t.Fatalf("cannot write cache: %s", err)
	}
	return res, nil
}

// check runs the check phase of the message without modifying the store.
func (env *walletEnv) check(at time.Time, msg vault.Msg, signers ...vault.Condition) error {
	cache := env.db.CacheWrap()
	defer cache.Discard()
	_, err := env.rt.handlers[msg.Path()].Check(env.ctx(at, signers...), cache, &vaulttest.Tx{Msg: msg})
	return err
}

// submit delivers a submit message and returns the transaction id.
func (env *walletEnv) submit(at time.Time, msg *SubmitMsg, signer vault.Condition) uint64 {
	env.t.Helper()
	res, err := env.deliver(at, msg, signer)
	assert.Nil(env.t, err)
	return orm.DecodeSequence(res.Data)
}

// governance submits the action addressed to the wallet, collects
// approvals of given owners and executes it after the execution delay.
func (env *walletEnv) governance(at time.Time, a Action, approvers ...vault.Condition) error {
	env.t.Helper()
	payload, err := EncodeAction(a)
	assert.Nil(env.t, err)
	id := env.submit(at, &SubmitMsg{Destination: SelfAddress(), Payload: payload}, approvers[0])
	for _, o := range approvers {
		if _, err := env.deliver(at, &ApproveMsg{TxID: id}, o); err != nil {
			return err
		}
	}
	w, err := env.store.Wallet(env.db)
	assert.Nil(env.t, err)
	_, err = env.deliver(at.Add(w.ExecutionDelay.Duration()), &ExecuteMsg{TxID: id}, approvers[0])
	return err
}

func (env *walletEnv) wallet() *Wallet {
	env.t.Helper()
	w, err := env.store.Wallet(env.db)
	assert.Nil(env.t, err)
	return w
}

func (env *walletEnv) transaction(id uint64) *Transaction {
	env.t.Helper()
	tx, err := env.store.Transaction(env.db, id)
	assert.Nil(env.t, err)
	return tx
}

func (env *walletEnv) balance(addr vault.Address) uint64 {
	env.t.Helper()
	b, err := env.bank.Balance(env.db, addr)
	assert.Nil(env.t, err)
	return b
}

func (env *walletEnv) fund(amount uint64) {
	env.t.Helper()
	assert.Nil(env.t, env.bank.IssueCoins(env.db, SelfAddress(), amount))
}

func addresses(conds ...vault.Condition) []vault.Address {
	res := make([]vault.Address, len(conds))
	for i, c := range conds {
		res[i] = c.Address()
	}
	return res
}
