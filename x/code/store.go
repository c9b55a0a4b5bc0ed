package code

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// Store manages the code deployed at addresses.
type Store struct {
	bucket orm.ModelBucket
}

// NewStore returns a code store using the default bucket.
func NewStore() Store {
	return Store{bucket: NewContractBucket()}
}

// Deploy stores code at an address that has no code yet.
func (s Store) Deploy(db vault.KVStore, addr vault.Address, code []byte) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	switch err := s.bucket.Has(db, addr); {
	case err == nil:
		return errors.Wrapf(ErrAlreadyExists, "address %s", addr)
	case !errors.ErrNotFound.Is(err):
		return errors.Wrap(err, "cannot check contract")
	}
	return s.bucket.Put(db, addr, &Contract{Code: code, Version: 1})
}

// Code returns the code deployed at given address. ErrNotContract is
// returned if there is none.
func (s Store) Code(db vault.ReadOnlyKVStore, addr vault.Address) ([]byte, error) {
	c, err := s.contract(db, addr)
	if err != nil {
		return nil, err
	}
	return c.Code, nil
}

// IsContract returns true if there is code deployed at given address.
func (s Store) IsContract(db vault.ReadOnlyKVStore, addr vault.Address) (bool, error) {
	switch err := s.bucket.Has(db, addr); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// SetCode replaces the code deployed at given address.
func (s Store) SetCode(db vault.KVStore, addr vault.Address, code []byte) error {
	c, err := s.contract(db, addr)
	if err != nil {
		return err
	}
	c.Code = code
	c.Version++
	return s.bucket.Put(db, addr, c)
}

// Version returns the number of times code at given address was deployed
// or replaced.
func (s Store) Version(db vault.ReadOnlyKVStore, addr vault.Address) (uint32, error) {
	c, err := s.contract(db, addr)
	if err != nil {
		return 0, err
	}
	return c.Version, nil
}

func (s Store) contract(db vault.ReadOnlyKVStore, addr vault.Address) (*Contract, error) {
	var c Contract
	switch err := s.bucket.One(db, addr, &c); {
	case err == nil:
		return &c, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrNotContract, "address %s", addr)
	default:
		return nil, err
	}
}
