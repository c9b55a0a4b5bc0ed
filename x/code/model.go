package code

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

const maxCodeSize = 64 * 1024

// Contract is the code deployed at an address.
type Contract struct {
	Code []byte `json:"code"`
	// Version is incremented on every code replacement.
	Version uint32 `json:"version"`
}

var _ orm.Model = (*Contract)(nil)

func (c *Contract) Validate() error {
	switch n := len(c.Code); {
	case n == 0:
		return errors.Field("Code", errors.ErrEmpty, "required")
	case n > maxCodeSize:
		return errors.Field("Code", errors.ErrInput, "too big: %d bytes", n)
	}
	return nil
}

func (c *Contract) Marshal() ([]byte, error) {
	return vault.Marshal(c)
}

func (c *Contract) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, c)
}

// NewContractBucket returns a bucket storing contracts under their address.
func NewContractBucket() orm.ModelBucket {
	return orm.NewModelBucket("code", &Contract{})
}
