package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// Size returns the number of submitted transactions.
func (s *Store) Size(db vault.ReadOnlyKVStore) (uint64, error) {
	return s.size.Latest(db)
}

// Submit appends the transaction to the ledger. The identifier is the
// ledger size before insertion. Execution state of the given transaction is
// reset.
func (s *Store) Submit(db vault.KVStore, tx *Transaction) (uint64, error) {
	id, err := s.size.Latest(db)
	if err != nil {
		return 0, err
	}
	tx.ID = id
	tx.ThresholdReachedAt = 0
	tx.Executed = false
	if err := s.txs.Put(db, orm.EncodeSequence(id), tx); err != nil {
		return 0, errors.Wrap(err, "cannot store transaction")
	}
	if _, err := s.size.NextInt(db); err != nil {
		return 0, err
	}
	return id, nil
}

// Transaction returns the transaction with given identifier or
// ErrTxNotFound.
func (s *Store) Transaction(db vault.ReadOnlyKVStore, id uint64) (*Transaction, error) {
	var tx Transaction
	switch err := s.txs.One(db, orm.EncodeSequence(id), &tx); {
	case err == nil:
		return &tx, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrTxNotFound, "id %d", id)
	default:
		return nil, err
	}
}

// SaveTransaction updates a submitted transaction. An executed
// transaction cannot be changed.
func (s *Store) SaveTransaction(db vault.KVStore, tx *Transaction) error {
	prev, err := s.Transaction(db, tx.ID)
	if err != nil {
		return err
	}
	if prev.Executed {
		return errors.Wrapf(ErrAlreadyExecuted, "id %d", tx.ID)
	}
	return s.txs.Put(db, orm.EncodeSequence(tx.ID), tx)
}

// Transactions returns all submitted transactions ordered by identifier.
func (s *Store) Transactions(db vault.ReadOnlyKVStore) ([]*Transaction, error) {
	it, err := s.txs.PrefixScan(db, nil, false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []*Transaction
	for {
		var tx Transaction
		switch _, err := it.LoadNext(&tx); {
		case err == nil:
			res = append(res, &tx)
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}
