package app

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store/iavl"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

var genesisTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testGenesis() *Genesis {
	return &Genesis{
		ChainID:     "vault-test",
		GenesisTime: vault.AsUnixTime(genesisTime),
		AppState:    vault.Options{},
	}
}

// recordingHandler writes a counter on every deliver and remembers the
// context it was called with.
type recordingHandler struct {
	err     error
	chainID string
	height  int64
	time    time.Time
}

var _ vault.Handler = (*recordingHandler)(nil)

func (h *recordingHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	h.record(ctx)
	if err := db.Set([]byte("checked"), []byte("yes")); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, h.err
}

func (h *recordingHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	h.record(ctx)
	if err := db.Set([]byte("delivered"), []byte(vault.GetPath(tx))); err != nil {
		return nil, err
	}
	res := &vault.DeliverResult{
		Tags: []common.KVPair{{Key: []byte("action"), Value: []byte("test")}},
	}
	return res, h.err
}

func (h *recordingHandler) record(ctx vault.Context) {
	h.chainID = vault.GetChainID(ctx)
	h.height, _ = vault.GetHeight(ctx)
	h.time, _ = vault.BlockTime(ctx)
}

type recordingNotifier struct {
	events []Event
	err    error
}

func (n *recordingNotifier) Notify(ctx context.Context, e Event) error {
	n.events = append(n.events, e)
	return n.err
}

type initFn func(vault.Context, vault.Options, vault.KVStore) error

func (fn initFn) FromGenesis(ctx vault.Context, opts vault.Options, db vault.KVStore) error {
	return fn(ctx, opts, db)
}

func newTestLedger(t testing.TB, h vault.Handler) *Ledger {
	t.Helper()
	l, err := NewLedger(iavl.MockCommitStore(), h, log.NewNopLogger())
	if err != nil {
		t.Fatalf("cannot create ledger: %s", err)
	}
	return l
}

func TestLedgerInitChain(t *testing.T) {
	l := newTestLedger(t, &recordingHandler{})

	var (
		calls   int
		chainID string
		ts      time.Time
	)
	init := initFn(func(ctx vault.Context, opts vault.Options, db vault.KVStore) error {
		calls++
		chainID = vault.GetChainID(ctx)
		ts, _ = vault.BlockTime(ctx)
		return db.Set([]byte("genesis"), []byte("done"))
	})

	assert.Nil(t, l.InitChain(context.Background(), testGenesis(), init))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "vault-test", chainID)
	assert.Equal(t, true, ts.Equal(genesisTime))
	assert.Equal(t, "vault-test", l.ChainID())

	height, err := l.Height()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), height)

	err = l.View(func(db vault.ReadOnlyKVStore) error {
		v, err := db.Get([]byte("genesis"))
		assert.Equal(t, []byte("done"), v)
		return err
	})
	assert.Nil(t, err)

	err = l.InitChain(context.Background(), testGenesis(), init)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, 1, calls)
}

func TestLedgerInitChainFailure(t *testing.T) {
	l := newTestLedger(t, &recordingHandler{})

	failing := initFn(func(ctx vault.Context, opts vault.Options, db vault.KVStore) error {
		if err := db.Set([]byte("genesis"), []byte("partial")); err != nil {
			return err
		}
		return errors.Wrap(errors.ErrModel, "broken genesis")
	})
	err := l.InitChain(context.Background(), testGenesis(), failing)
	assert.IsErr(t, errors.ErrModel, err)
	assert.Equal(t, "", l.ChainID())

	// Nothing was written, so the chain can still be initialized.
	ok := initFn(func(vault.Context, vault.Options, vault.KVStore) error { return nil })
	assert.Nil(t, l.InitChain(context.Background(), testGenesis(), ok))

	gen := testGenesis()
	gen.ChainID = "x"
	l = newTestLedger(t, &recordingHandler{})
	err = l.InitChain(context.Background(), gen, ok)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestLedgerRequiresInit(t *testing.T) {
	l := newTestLedger(t, &recordingHandler{})
	tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/tx"}}

	_, err := l.Check(context.Background(), tx)
	assert.IsErr(t, errors.ErrState, err)
	_, err = l.Deliver(context.Background(), tx)
	assert.IsErr(t, errors.ErrState, err)
}

func TestLedgerDeliver(t *testing.T) {
	now := genesisTime.Add(time.Hour)

	cases := map[string]struct {
		handlerErr  error
		notifierErr error
		wantErr     *errors.Error
		wantHeight  int64
		wantEvents  int
		wantWritten bool
	}{
		"success": {
			wantHeight:  2,
			wantEvents:  1,
			wantWritten: true,
		},
		"handler failure": {
			handlerErr: errors.ErrUnauthorized,
			wantErr:    errors.ErrUnauthorized,
			wantHeight: 1,
		},
		"notifier failure is not reported": {
			notifierErr: errors.ErrDatabase,
			wantHeight:  2,
			wantEvents:  1,
			wantWritten: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			h := &recordingHandler{err: tc.handlerErr}
			l := newTestLedger(t, h).WithClock(func() time.Time { return now })
			n := &recordingNotifier{err: tc.notifierErr}
			l.Subscribe(n)
			noop := initFn(func(vault.Context, vault.Options, vault.KVStore) error { return nil })
			assert.Nil(t, l.InitChain(context.Background(), testGenesis(), noop))

			tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/deliver"}}
			res, err := l.Deliver(context.Background(), tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			assert.Equal(t, "vault-test", h.chainID)
			assert.Equal(t, int64(2), h.height)
			assert.Equal(t, true, h.time.Equal(now))

			height, err := l.Height()
			assert.Nil(t, err)
			assert.Equal(t, tc.wantHeight, height)

			err = l.View(func(db vault.ReadOnlyKVStore) error {
				ok, err := db.Has([]byte("delivered"))
				assert.Equal(t, tc.wantWritten, ok)
				return err
			})
			assert.Nil(t, err)

			assert.Equal(t, tc.wantEvents, len(n.events))
			if tc.wantEvents == 0 {
				return
			}
			assert.Equal(t, "test", res.TagValue("action"))
			assert.Equal(t, tc.wantHeight, res.Height)
			e := n.events[0]
			assert.Equal(t, int64(2), e.Height)
			assert.Equal(t, "test/deliver", e.Path)
			assert.Equal(t, true, e.Time.Equal(now))
			assert.Equal(t, "test", e.TagValue("action"))
		})
	}
}

func TestLedgerDeliverReportsCommitHeight(t *testing.T) {
	l := newTestLedger(t, &recordingHandler{})
	noop := initFn(func(vault.Context, vault.Options, vault.KVStore) error { return nil })
	assert.Nil(t, l.InitChain(context.Background(), testGenesis(), noop))

	tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/deliver"}}
	for want := int64(2); want < 5; want++ {
		res, err := l.Deliver(context.Background(), tx)
		assert.Nil(t, err)
		assert.Equal(t, want, res.Height)

		height, err := l.Height()
		assert.Nil(t, err)
		assert.Equal(t, res.Height, height)
	}
}

func TestLedgerCheckDoesNotWrite(t *testing.T) {
	h := &recordingHandler{}
	l := newTestLedger(t, h)
	noop := initFn(func(vault.Context, vault.Options, vault.KVStore) error { return nil })
	assert.Nil(t, l.InitChain(context.Background(), testGenesis(), noop))

	tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/check"}}
	_, err := l.Check(context.Background(), tx)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), h.height)

	height, err := l.Height()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), height)

	err = l.View(func(db vault.ReadOnlyKVStore) error {
		ok, err := db.Has([]byte("checked"))
		assert.Equal(t, false, ok)
		return err
	})
	assert.Nil(t, err)
}

func TestLedgerReload(t *testing.T) {
	db, cleanup := vaulttest.CommitKVStore(t)
	defer cleanup()
	l, err := NewLedger(db, &recordingHandler{}, log.NewNopLogger())
	assert.Nil(t, err)
	noop := initFn(func(vault.Context, vault.Options, vault.KVStore) error { return nil })
	assert.Nil(t, l.InitChain(context.Background(), testGenesis(), noop))

	reloaded, err := NewLedger(db, &recordingHandler{}, log.NewNopLogger())
	assert.Nil(t, err)
	assert.Equal(t, "vault-test", reloaded.ChainID())
}
