package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

func approvalKey(txID uint64, owner vault.Address) []byte {
	return append(orm.EncodeSequence(txID), owner...)
}

// SetApproval sets or clears the approval bit of an owner. Setting a bit to
// its current value is a no-op.
func (s *Store) SetApproval(db vault.KVStore, txID uint64, owner vault.Address, approved bool, now vault.UnixTime) error {
	has, err := s.HasApproved(db, txID, owner)
	if err != nil {
		return err
	}
	switch {
	case approved && !has:
		return s.approvals.Put(db, approvalKey(txID, owner), &Approval{ApprovedAt: now})
	case !approved && has:
		return s.approvals.Delete(db, approvalKey(txID, owner))
	}
	return nil
}

// HasApproved returns true if the owner approved the transaction. It does
// not check whether the address is still an owner.
func (s *Store) HasApproved(db vault.ReadOnlyKVStore, txID uint64, owner vault.Address) (bool, error) {
	switch err := s.approvals.Has(db, approvalKey(txID, owner)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// ApprovalCount returns the number of current owners that approved the
// transaction. Approvals of removed owners are not counted.
func (s *Store) ApprovalCount(db vault.ReadOnlyKVStore, w *Wallet, txID uint64) (uint32, error) {
	approved, err := s.approvers(db, w, txID)
	if err != nil {
		return 0, err
	}
	return uint32(len(approved)), nil
}

// Approvals returns the current owners that approved the transaction, in
// the owner set order.
func (s *Store) Approvals(db vault.ReadOnlyKVStore, txID uint64) ([]vault.Address, error) {
	if _, err := s.Transaction(db, txID); err != nil {
		return nil, err
	}
	w, err := s.Wallet(db)
	if err != nil {
		return nil, err
	}
	return s.approvers(db, w, txID)
}

func (s *Store) approvers(db vault.ReadOnlyKVStore, w *Wallet, txID uint64) ([]vault.Address, error) {
	var res []vault.Address
	for _, o := range w.Owners {
		ok, err := s.HasApproved(db, txID, o)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, o)
		}
	}
	return res, nil
}
