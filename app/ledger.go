package app

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger processes transactions one at a time. Each delivered transaction
// runs in its own cache wrap and is committed as a new version on success.
// A failed transaction leaves no trace.
type Ledger struct {
	mu        sync.Mutex
	store     *CommitStore
	handler   vault.Handler
	chainID   string
	now       func() time.Time
	logger    log.Logger
	notifiers Notifiers
}

// NewLedger loads the latest state of given store. The handler is usually a
// decorated Router.
func NewLedger(db vault.CommitKVStore, handler vault.Handler, logger log.Logger) (*Ledger, error) {
	cs, err := NewCommitStore(db)
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		store:   cs,
		handler: handler,
		now:     time.Now,
		logger:  logger,
	}
	err = cs.View(func(db vault.CacheableKVStore) error {
		chainID, err := loadChainID(db)
		l.chainID = chainID
		return err
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Receipt is the result of a committed transaction.
type Receipt struct {
	*vault.DeliverResult
	// Height is the version the transaction was committed at.
	Height int64
}

// WithClock replaces the source of the block time.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

// Subscribe registers a notifier of committed transactions.
func (l *Ledger) Subscribe(n Notifier) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifiers = append(l.notifiers, n)
}

// ChainID returns an empty string if the ledger was not initialized.
func (l *Ledger) ChainID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chainID
}

// Height returns the last committed version.
func (l *Ledger) Height() (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, err := l.store.CommitInfo()
	return id.Version, err
}

// InitChain stores the chain id and runs all initializers with the genesis
// state. It can be done only once.
func (l *Ledger) InitChain(ctx context.Context, gen *Genesis, init vault.Initializer) error {
	if err := gen.Validate(); err != nil {
		return errors.Wrap(err, "genesis")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %q already initialized", l.chainID)
	}
	ctx = vault.WithChainID(ctx, gen.ChainID)
	ctx = vault.WithBlockTime(ctx, gen.GenesisTime.Time())
	ctx = vault.WithLogger(ctx, l.logger.With("module", "genesis"))
	_, err := l.store.Apply(func(db vault.CacheableKVStore) error {
		if err := saveChainID(db, gen.ChainID); err != nil {
			return err
		}
		return init.FromGenesis(ctx, gen.AppState, db)
	})
	if err != nil {
		return errors.Wrap(err, "init chain")
	}
	l.chainID = gen.ChainID
	l.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// Check runs the check phase of the transaction against the committed
// state. Nothing is written.
func (l *Ledger) Check(ctx context.Context, tx vault.Tx) (*vault.CheckResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, err := l.context(ctx)
	if err != nil {
		return nil, err
	}
	var res *vault.CheckResult
	err = l.store.View(func(db vault.CacheableKVStore) error {
		var err error
		res, err = l.handler.Check(ctx, db, tx)
		return err
	})
	return res, err
}

// Deliver processes the transaction and commits its changes. Subscribed
// notifiers are called once the change is committed.
func (l *Ledger) Deliver(ctx context.Context, tx vault.Tx) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, err := l.context(ctx)
	if err != nil {
		return nil, err
	}
	var res *vault.DeliverResult
	id, err := l.store.Apply(func(db vault.CacheableKVStore) error {
		var err error
		res, err = l.handler.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &vault.DeliverResult{}
	}

	blockTime, _ := vault.BlockTime(ctx)
	event := Event{
		Height: id.Version,
		Time:   blockTime,
		Path:   vault.GetPath(tx),
		Tags:   res.Tags,
	}
	if err := l.notifiers.Notify(ctx, event); err != nil {
		l.logger.Error("cannot notify", "height", id.Version, "err", err)
	}
	return &Receipt{DeliverResult: res, Height: id.Version}, nil
}

// DeliverRaw decodes the serialized Tx envelope and delivers it.
func (l *Ledger) DeliverRaw(ctx context.Context, raw []byte) (*Receipt, error) {
	tx, err := DecodeTx(raw)
	if err != nil {
		return nil, err
	}
	return l.Deliver(ctx, tx)
}

// View gives read access to the committed state.
func (l *Ledger) View(fn func(db vault.ReadOnlyKVStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.View(func(db vault.CacheableKVStore) error {
		return fn(db)
	})
}

// context returns the context of the next transaction. It must be called
// with the lock held.
func (l *Ledger) context(ctx context.Context) (vault.Context, error) {
	if l.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	id, err := l.store.CommitInfo()
	if err != nil {
		return nil, err
	}
	height := id.Version + 1
	ctx = vault.WithChainID(ctx, l.chainID)
	ctx = vault.WithHeight(ctx, height)
	ctx = vault.WithBlockTime(ctx, l.now())
	ctx = vault.WithLogger(ctx, l.logger.With("height", height))
	return ctx, nil
}
