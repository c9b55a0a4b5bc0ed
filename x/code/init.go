package code

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const optKey = "code"

// GenesisContract is a contract deployed at genesis. Code is a plain
// string naming a native implementation.
type GenesisContract struct {
	Address vault.Address `json:"address"`
	Code    string        `json:"code"`
}

// Initializer deploys contracts listed in the genesis file.
type Initializer struct{}

var _ vault.Initializer = Initializer{}

func (Initializer) FromGenesis(ctx vault.Context, opts vault.Options, db vault.KVStore) error {
	var contracts []GenesisContract
	if err := opts.ReadOptions(optKey, &contracts); err != nil {
		return err
	}
	s := NewStore()
	for i, c := range contracts {
		if err := s.Deploy(db, c.Address, []byte(c.Code)); err != nil {
			return errors.Wrapf(err, "contract %d", i)
		}
	}
	return nil
}
