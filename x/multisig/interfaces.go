package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/x/code"
)

// Bank moves value between accounts. Implemented by the cash controller.
type Bank interface {
	MoveCoins(db vault.KVStore, src, dest vault.Address, amount uint64) error
}

// Invoker calls a method of a deployed contract.
type Invoker interface {
	Invoke(ctx vault.Context, db vault.KVStore, call code.Call) (*vault.DeliverResult, error)
}

// CodeStore keeps the code deployed at an address.
type CodeStore interface {
	Deploy(db vault.KVStore, addr vault.Address, code []byte) error
	SetCode(db vault.KVStore, addr vault.Address, code []byte) error
	Code(db vault.ReadOnlyKVStore, addr vault.Address) ([]byte, error)
}

var (
	_ Invoker   = (*code.Invoker)(nil)
	_ CodeStore = code.Store{}
)
