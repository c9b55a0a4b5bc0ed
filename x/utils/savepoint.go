package utils

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Savepoint isolates all writes of the wrapped handler. Changes are
// written to the underlying store only when the handler succeeds, so a
// failed call leaves no trace.
//
// A store that cannot be cache wrapped is passed through unchanged.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ vault.Decorator = Savepoint{}

// NewSavepoint returns a decorator that is disabled for both phases. Use
// OnCheck and OnDeliver to enable it.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for the check phase.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for the deliver phase.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	cache, ok := s.wrap(db, s.onCheck)
	if !ok {
		return next.Check(ctx, db, tx)
	}
	res, err := next.Check(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	cache, ok := s.wrap(db, s.onDeliver)
	if !ok {
		return next.Deliver(ctx, db, tx)
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (Savepoint) wrap(db vault.KVStore, enabled bool) (vault.KVCacheWrap, bool) {
	if !enabled {
		return nil, false
	}
	c, ok := db.(vault.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return c.CacheWrap(), true
}

// commit writes the cache if the call succeeded and discards it otherwise.
// The call error is returned unchanged.
func commit(cache vault.KVCacheWrap, callErr error) error {
	if callErr != nil {
		cache.Discard()
		return callErr
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
