package code

import (
	"fmt"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// Call describes a single contract method invocation.
type Call struct {
	Caller   vault.Address
	Contract vault.Address
	Method   string
	Payload  []byte
	// Value is moved from the caller to the contract before the method
	// is invoked.
	Value uint64
}

// Implementation is a natively implemented contract.
type Implementation interface {
	Invoke(ctx vault.Context, db vault.KVStore, call Call) (*vault.DeliverResult, error)
}

// Bank moves the value attached to a call.
type Bank interface {
	MoveCoins(db vault.KVStore, src, dest vault.Address, amount uint64) error
}

// Invoker dispatches calls to the implementation named by the code
// deployed at the called address.
type Invoker struct {
	store Store
	bank  Bank
	impls map[string]Implementation
}

// NewInvoker returns an invoker without any implementation registered.
func NewInvoker(store Store, bank Bank) *Invoker {
	return &Invoker{
		store: store,
		bank:  bank,
		impls: make(map[string]Implementation),
	}
}

// Register binds an implementation to the code value. Registering the same
// code twice panics.
func (i *Invoker) Register(code string, impl Implementation) {
	if _, ok := i.impls[code]; ok {
		panic(fmt.Sprintf("contract code %q already registered", code))
	}
	i.impls[code] = impl
}

// Invoke calls the contract method. The whole call must be executed within
// a single cache wrap, so that any failure rolls back the value transfer.
func (i *Invoker) Invoke(ctx vault.Context, db vault.KVStore, call Call) (*vault.DeliverResult, error) {
	code, err := i.store.Code(db, call.Contract)
	if err != nil {
		return nil, err
	}
	impl, ok := i.impls[string(code)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCode, "%q", code)
	}
	if call.Value > 0 {
		if err := i.bank.MoveCoins(db, call.Caller, call.Contract, call.Value); err != nil {
			return nil, errors.Wrap(err, "cannot attach value")
		}
	}
	res, err := impl.Invoke(ctx, db, call)
	if err != nil {
		return nil, errors.Wrapf(err, "%s.%s", call.Contract, call.Method)
	}
	if res == nil {
		res = &vault.DeliverResult{}
	}
	res.Tags = append([]common.KVPair{
		{Key: []byte("action"), Value: []byte("call")},
		{Key: []byte("contract"), Value: []byte(call.Contract.String())},
		{Key: []byte("method"), Value: []byte(call.Method)},
	}, res.Tags...)
	return res, nil
}
