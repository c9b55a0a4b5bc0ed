package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// CommitStore runs every change against a cache wrap of the committed
// state and turns each successful change into a new committed version.
type CommitStore struct {
	committed vault.CommitKVStore
}

// NewCommitStore loads the latest persisted version of given store.
func NewCommitStore(db vault.CommitKVStore) (*CommitStore, error) {
	if err := db.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{committed: db}, nil
}

// CommitInfo returns the current version and hash.
func (cs *CommitStore) CommitInfo() (vault.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Apply calls fn with a cache wrap of the committed state. If fn succeeds
// the changes are written and committed as a new version. Otherwise they
// are discarded and the error of fn is returned.
func (cs *CommitStore) Apply(fn func(db vault.CacheableKVStore) error) (vault.CommitID, error) {
	cache := cs.committed.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return vault.CommitID{}, err
	}
	if err := cache.Write(); err != nil {
		return vault.CommitID{}, errors.Wrap(err, "write cache")
	}
	id, err := cs.committed.Commit()
	if err != nil {
		return vault.CommitID{}, errors.Wrap(err, "commit")
	}
	return id, nil
}

// View calls fn with a cache wrap of the committed state. Changes made by
// fn are always discarded.
func (cs *CommitStore) View(fn func(db vault.CacheableKVStore) error) error {
	cache := cs.committed.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}

// _vt: is a prefix for the ledger internal data.
const chainIDKey = "_vt:chainID"

// loadChainID returns the stored chain id or an empty string.
func loadChainID(db vault.ReadOnlyKVStore) (string, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores the chain id. It can be set only once.
func saveChainID(db vault.KVStore, chainID string) error {
	if !vault.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	switch exists, err := db.Has(k); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrImmutable, "chain id is set at genesis")
	}
	if err := db.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
