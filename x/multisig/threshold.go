package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

func validateRequired(required uint32, owners int) error {
	if required == 0 {
		return errors.Wrap(ErrInvalidThreshold, "at least one approval must be required")
	}
	if int(required) > owners {
		return errors.Wrapf(ErrInvalidThreshold, "%d approvals required from %d owners", required, owners)
	}
	return nil
}

// SetRequired changes the number of approvals required to execute a
// transaction. The wallet is not saved.
func SetRequired(w *Wallet, n uint32) error {
	if err := validateRequired(n, len(w.Owners)); err != nil {
		return err
	}
	w.Required = n
	return nil
}

// CanRemoveOwner returns an error if removing a single owner would leave
// the wallet with fewer owners than required approvals, or with fewer than
// two owners.
func CanRemoveOwner(w *Wallet) error {
	left := len(w.Owners) - 1
	if left < minOwners {
		return errors.Wrapf(ErrCannotRemoveOwner, "at least %d owners must remain", minOwners)
	}
	if left < int(w.Required) {
		return errors.Wrapf(ErrCannotRemoveOwner, "%d approvals required from %d owners", w.Required, left)
	}
	return nil
}

// Required returns the number of approvals a transaction needs.
func (s *Store) Required(db vault.ReadOnlyKVStore) (uint32, error) {
	w, err := s.Wallet(db)
	if err != nil {
		return 0, err
	}
	return w.Required, nil
}
