package code

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
)

// RegisterRoutes registers the contract call handler.
func RegisterRoutes(r vault.Registry, auth x.Authenticator, invoker *Invoker) {
	r.Handle(pathCallMsg, &callHandler{auth: auth, invoker: invoker})
}

type callHandler struct {
	auth    x.Authenticator
	invoker *Invoker
}

var _ vault.Handler = (*callHandler)(nil)

func (h *callHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h *callHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return h.invoker.Invoke(ctx, db, Call{
		Caller:   msg.Source,
		Contract: msg.Contract,
		Method:   msg.Method,
		Payload:  msg.Payload,
		Value:    msg.Value,
	})
}

func (h *callHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*CallMsg, error) {
	var msg CallMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	if ok, err := h.invoker.store.IsContract(db, msg.Contract); err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.Wrapf(ErrNotContract, "address %s", msg.Contract)
	}
	return &msg, nil
}
