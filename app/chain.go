package app

import (
	"reflect"

	"github.com/iov-one/vault"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler.
type Decorators struct {
	chain []vault.Decorator
}

/*
ChainDecorators takes a chain of decorators and, once the final handler
(usually a Router) is given, returns a Handler executing the whole stack.
The first decorator is the outermost one.

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    sigs.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(router)
*/
func ChainDecorators(chain ...vault.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a copy with more decorators appended. Nil decorators are
// ignored.
func (d Decorators) Chain(chain ...vault.Decorator) Decorators {
	next := make([]vault.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if isNil(dec) {
			continue
		}
		next = append(next, dec)
	}
	return Decorators{chain: next}
}

func isNil(d vault.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack and returns a Handler that passes through
// all decorators before calling h.
func (d Decorators) WithHandler(h vault.Handler) vault.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step executes a single decorator around the rest of the stack.
type step struct {
	d    vault.Decorator
	next vault.Handler
}

var _ vault.Handler = step{}

func (s step) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
