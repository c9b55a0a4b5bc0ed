package utils

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Recovery converts a panic of the wrapped handler into ErrPanic, so that a
// faulty contract cannot take the ledger down.
type Recovery struct{}

var _ vault.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (_ *vault.CheckResult, err error) {
	defer recoverInto(ctx, &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (_ *vault.DeliverResult, err error) {
	defer recoverInto(ctx, &err)
	return next.Deliver(ctx, db, tx)
}

func recoverInto(ctx vault.Context, err *error) {
	if r := recover(); r != nil {
		*err = errors.Wrapf(errors.ErrPanic, "%v", r)
		vault.GetLogger(ctx).Error("handler panic", "panic", r)
	}
}
