package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Controller is the functionality needed by cash.Handler and other
// extensions that move value.
type Controller interface {
	MoveCoins(store vault.KVStore, src, dest vault.Address, amount uint64) error
	IssueCoins(store vault.KVStore, dest vault.Address, amount uint64) error
	Balance(store vault.ReadOnlyKVStore, addr vault.Address) (uint64, error)
}

// BaseController is the default implementation of Controller.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns base controller implementation.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(store vault.KVStore, src, dest vault.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.bucket.Get(store, src)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(store, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}

	// Loaded after the sender was saved, so that moving to self keeps
	// the balance unchanged.
	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(store, dest, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the account.
func (c BaseController) IssueCoins(store vault.KVStore, dest vault.Address, amount uint64) error {
	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(store, dest, recipient)
}

// Balance returns the balance of given address. Unknown addresses have a
// zero balance.
func (c BaseController) Balance(store vault.ReadOnlyKVStore, addr vault.Address) (uint64, error) {
	acc, err := c.bucket.Get(store, addr)
	if err != nil || acc == nil {
		return 0, err
	}
	return acc.Balance, nil
}
