package x

import (
	"github.com/iov-one/vault"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(vault.Context) []vault.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(vault.Context, vault.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators. Order is
// preserved and duplicates are returned only once.
func (m MultiAuth) GetConditions(ctx vault.Context) []vault.Condition {
	var res []vault.Condition
	for _, impl := range m.impls {
		for _, c := range impl.GetConditions(ctx) {
			if !hasCondition(res, c) {
				res = append(res, c)
			}
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx vault.Context, auth Authenticator) []vault.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]vault.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil
func MainSigner(ctx vault.Context, auth Authenticator) vault.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// AnySigner returns the address of the first signer that is present in
// candidates, or nil if none of the candidates signed.
func AnySigner(ctx vault.Context, auth Authenticator, candidates []vault.Address) vault.Address {
	for _, c := range candidates {
		if auth.HasAddress(ctx, c) {
			return c
		}
	}
	return nil
}

// HasAllConditions returns true if all elements in required are
// also in context.
func HasAllConditions(ctx vault.Context, auth Authenticator, required []vault.Condition) bool {
	conds := auth.GetConditions(ctx)
	for _, r := range required {
		if !hasCondition(conds, r) {
			return false
		}
	}
	return true
}

func hasCondition(conds []vault.Condition, c vault.Condition) bool {
	for _, p := range conds {
		if p.Equals(c) {
			return true
		}
	}
	return false
}
