package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Account holds the balance of a single address.
type Account struct {
	Balance uint64 `json:"balance"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	return nil
}

func (a *Account) Marshal() ([]byte, error) {
	return vault.Marshal(a)
}

func (a *Account) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, a)
}

// Add increases the balance. Fails if it overflows.
func (a *Account) Add(amount uint64) error {
	if a.Balance+amount < a.Balance {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	a.Balance += amount
	return nil
}

// Subtract decreases the balance. Fails if there are not enough funds.
func (a *Account) Subtract(amount uint64) error {
	if a.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", a.Balance, amount)
	}
	a.Balance -= amount
	return nil
}

// Bucket is a type-safe wrapper around orm.ModelBucket. Accounts are
// stored under their address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Account{}),
	}
}

// Get returns the account stored under given address, or nil if it does
// not exist.
func (b Bucket) Get(db vault.ReadOnlyKVStore, addr vault.Address) (*Account, error) {
	var acc Account
	switch err := b.One(db, addr, &acc); {
	case err == nil:
		return &acc, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// GetOrCreate returns the account stored under given address, or an empty
// one.
func (b Bucket) GetOrCreate(db vault.ReadOnlyKVStore, addr vault.Address) (*Account, error) {
	acc, err := b.Get(db, addr)
	if err == nil && acc == nil {
		acc = &Account{}
	}
	return acc, err
}

// Save stores the account under given address.
func (b Bucket) Save(db vault.KVStore, addr vault.Address, acc *Account) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return b.Put(db, addr, acc)
}
