package multisig

import (
	"context"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/x"
)

type contextKey int // local to the multisig module

const (
	contextKeySelf contextKey = iota
)

// SelfCondition is the condition of the wallet acting on itself. It is
// present in the context only while the wallet dispatches a governance
// message of an executed transaction.
var SelfCondition = vault.NewCondition("multisig", "wallet", []byte("self"))

// SelfAddress returns the address of the wallet. Deposits are sent to this
// address and all value transfers are paid from it.
func SelfAddress() vault.Address {
	return SelfCondition.Address()
}

// withSelf is a private method, as only this module can act as the wallet.
func withSelf(ctx vault.Context) vault.Context {
	return context.WithValue(ctx, contextKeySelf, SelfCondition)
}

// Authenticate exposes the wallet condition set during a governance call.
type Authenticate struct {
}

var _ x.Authenticator = Authenticate{}

// GetConditions returns permissions previously set on this context
func (a Authenticate) GetConditions(ctx vault.Context) []vault.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySelf).(vault.Condition)
	if val == nil {
		return nil
	}
	return []vault.Condition{val}
}

// HasAddress returns true iff this address is in GetConditions
func (a Authenticate) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
