package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// IsOwner returns true if the address belongs to the current owner set.
// The lookup uses the owner index and does not load the wallet.
func (s *Store) IsOwner(db vault.ReadOnlyKVStore, addr vault.Address) (bool, error) {
	if len(addr) == 0 {
		return false, nil
	}
	switch err := s.owners.Has(db, addr); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// AddOwner appends the address to the owner set of the wallet and indexes
// it. The wallet is not saved.
func (s *Store) AddOwner(db vault.KVStore, w *Wallet, addr vault.Address, now vault.UnixTime) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if ok, err := s.IsOwner(db, addr); err != nil {
		return err
	} else if ok {
		return errors.Wrapf(ErrAlreadyOwner, "address %s", addr)
	}
	if err := s.owners.Put(db, addr, &Owner{AddedAt: now}); err != nil {
		return errors.Wrap(err, "cannot index owner")
	}
	w.Owners = append(w.Owners, addr)
	return nil
}

// RemoveOwner drops the address from the owner set of the wallet and from
// the index. Relative order of the remaining owners is preserved. The
// threshold is not checked and the wallet is not saved.
func (s *Store) RemoveOwner(db vault.KVStore, w *Wallet, addr vault.Address) error {
	if ok, err := s.IsOwner(db, addr); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(ErrNotOwner, "address %s", addr)
	}
	if err := s.owners.Delete(db, addr); err != nil {
		return errors.Wrap(err, "cannot drop owner index")
	}
	owners := make([]vault.Address, 0, len(w.Owners)-1)
	for _, o := range w.Owners {
		if !o.Equals(addr) {
			owners = append(owners, o)
		}
	}
	w.Owners = owners
	return nil
}

// ReplaceOwner swaps an owner for a new address. The new owner is
// appended at the end of the owner set.
func (s *Store) ReplaceOwner(db vault.KVStore, w *Wallet, old, replacement vault.Address, now vault.UnixTime) error {
	if ok, err := s.IsOwner(db, old); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(ErrNotOwner, "address %s", old)
	}
	if ok, err := s.IsOwner(db, replacement); err != nil {
		return err
	} else if ok {
		return errors.Wrapf(ErrAlreadyOwner, "address %s", replacement)
	}
	if err := s.RemoveOwner(db, w, old); err != nil {
		return err
	}
	if err := s.AddOwner(db, w, replacement, now); err != nil {
		return err
	}
	return nil
}

// Owners returns the current owner set in order.
func (s *Store) Owners(db vault.ReadOnlyKVStore) ([]vault.Address, error) {
	w, err := s.Wallet(db)
	if err != nil {
		return nil, err
	}
	return w.Owners, nil
}
