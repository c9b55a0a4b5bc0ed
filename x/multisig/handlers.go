package multisig

import (
	"strconv"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/code"
	"github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. Governance messages are registered as well, so that calling them
// directly fails with ErrNotSelf.
func RegisterRoutes(r vault.Registry, auth x.Authenticator, bank Bank, invoker Invoker, codes CodeStore) {
	store := NewStore()
	gov := NewGovernance(x.ChainAuth(Authenticate{}, auth), store, codes)
	r.Handle(pathSubmitMsg, &SubmitHandler{auth: auth, store: store})
	r.Handle(pathApproveMsg, &ApproveHandler{auth: auth, store: store})
	r.Handle(pathRevokeMsg, &RevokeHandler{auth: auth, store: store})
	r.Handle(pathExecuteMsg, &ExecuteHandler{
		auth:    auth,
		store:   store,
		bank:    bank,
		invoker: invoker,
		gov:     gov,
	})
	r.Handle(pathDepositMsg, &DepositHandler{auth: auth, store: store, bank: bank})
	gov.register(r)
}

// callerOwner returns the first signer that belongs to the owner set.
func callerOwner(ctx vault.Context, db vault.ReadOnlyKVStore, auth x.Authenticator, store *Store) (vault.Address, error) {
	for _, c := range auth.GetConditions(ctx) {
		addr := c.Address()
		ok, err := store.IsOwner(db, addr)
		if err != nil {
			return nil, err
		}
		if ok {
			return addr, nil
		}
	}
	return nil, errors.Wrap(ErrNotOwner, "owner signature required")
}

func eventTags(action string, kv ...string) []common.KVPair {
	tags := []common.KVPair{{Key: []byte("action"), Value: []byte(action)}}
	for i := 0; i+1 < len(kv); i += 2 {
		tags = append(tags, common.KVPair{Key: []byte(kv[i]), Value: []byte(kv[i+1])})
	}
	return tags
}

func uitoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}

// SubmitHandler appends a transaction to the ledger.
type SubmitHandler struct {
	auth  x.Authenticator
	store *Store
}

var _ vault.Handler = (*SubmitHandler)(nil)

func (h *SubmitHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h *SubmitHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	id, err := h.store.Submit(db, &Transaction{
		Destination: msg.Destination,
		Method:      msg.Method,
		Value:       msg.Value,
		Payload:     msg.Payload,
		Submitter:   caller,
		SubmittedAt: now,
	})
	if err != nil {
		return nil, err
	}
	return &vault.DeliverResult{
		Data: orm.EncodeSequence(id),
		Tags: eventTags("submit", "txid", uitoa(id), "owner", caller.String()),
	}, nil
}

func (h *SubmitHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*SubmitMsg, vault.Address, error) {
	var msg SubmitMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := callerOwner(ctx, db, h.auth, h.store)
	if err != nil {
		return nil, nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if len(msg.Payload) > int(conf.MaxPayloadSize) {
		return nil, nil, errors.Field("Payload", errors.ErrInput, "payload longer than %d bytes", conf.MaxPayloadSize)
	}
	return &msg, caller, nil
}

// ApproveHandler records the approval of the signing owner.
type ApproveHandler struct {
	auth  x.Authenticator
	store *Store
}

var _ vault.Handler = (*ApproveHandler)(nil)

func (h *ApproveHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h *ApproveHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	mtx, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.store.SetApproval(db, mtx.ID, caller, true, now); err != nil {
		return nil, err
	}
	w, err := h.store.Wallet(db)
	if err != nil {
		return nil, err
	}
	count, err := h.store.ApprovalCount(db, w, mtx.ID)
	if err != nil {
		return nil, err
	}
	tags := eventTags("approve", "txid", uitoa(mtx.ID), "owner", caller.String(), "approvals", uitoa(uint64(count)))
	if count == w.Required {
		mtx.ThresholdReachedAt = now
		if err := h.store.SaveTransaction(db, mtx); err != nil {
			return nil, err
		}
		tags = append(tags, common.KVPair{Key: []byte("threshold_reached_at"), Value: []byte(strconv.FormatInt(int64(now), 10))})
	}
	return &vault.DeliverResult{Tags: tags}, nil
}

func (h *ApproveHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*Transaction, vault.Address, error) {
	var msg ApproveMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := callerOwner(ctx, db, h.auth, h.store)
	if err != nil {
		return nil, nil, err
	}
	mtx, err := h.store.Transaction(db, msg.TxID)
	if err != nil {
		return nil, nil, err
	}
	if ok, err := h.store.HasApproved(db, mtx.ID, caller); err != nil {
		return nil, nil, err
	} else if ok {
		return nil, nil, errors.Wrapf(ErrAlreadyApproved, "id %d", mtx.ID)
	}
	if mtx.Executed {
		return nil, nil, errors.Wrapf(ErrAlreadyExecuted, "id %d", mtx.ID)
	}
	return mtx, caller, nil
}

// RevokeHandler clears the approval of the signing owner.
type RevokeHandler struct {
	auth  x.Authenticator
	store *Store
}

var _ vault.Handler = (*RevokeHandler)(nil)

func (h *RevokeHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h *RevokeHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	mtx, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	w, err := h.store.Wallet(db)
	if err != nil {
		return nil, err
	}
	count, err := h.store.ApprovalCount(db, w, mtx.ID)
	if err != nil {
		return nil, err
	}
	if count == w.Required {
		mtx.ThresholdReachedAt = 0
		if err := h.store.SaveTransaction(db, mtx); err != nil {
			return nil, err
		}
	}
	if err := h.store.SetApproval(db, mtx.ID, caller, false, 0); err != nil {
		return nil, err
	}
	return &vault.DeliverResult{
		Tags: eventTags("revoke", "txid", uitoa(mtx.ID), "owner", caller.String()),
	}, nil
}

func (h *RevokeHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*Transaction, vault.Address, error) {
	var msg RevokeMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := callerOwner(ctx, db, h.auth, h.store)
	if err != nil {
		return nil, nil, err
	}
	mtx, err := h.store.Transaction(db, msg.TxID)
	if err != nil {
		return nil, nil, err
	}
	if mtx.Executed {
		return nil, nil, errors.Wrapf(ErrAlreadyExecuted, "id %d", mtx.ID)
	}
	if ok, err := h.store.HasApproved(db, mtx.ID, caller); err != nil {
		return nil, nil, err
	} else if !ok {
		return nil, nil, errors.Wrapf(ErrNotApproved, "id %d", mtx.ID)
	}
	return mtx, caller, nil
}

// ExecuteHandler executes a transaction that collected enough approvals.
type ExecuteHandler struct {
	auth    x.Authenticator
	store   *Store
	bank    Bank
	invoker Invoker
	gov     *Governance
}

var _ vault.Handler = (*ExecuteHandler)(nil)

func (h *ExecuteHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver marks the transaction executed before calling the destination.
// A call back into this handler for the same transaction fails with
// ErrAlreadyExecuted. Any failure of the destination fails the whole call.
func (h *ExecuteHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	mtx, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	mtx.Executed = true
	if err := h.store.SaveTransaction(db, mtx); err != nil {
		return nil, err
	}

	var res *vault.DeliverResult
	switch {
	case mtx.Destination.Equals(SelfAddress()):
		res, err = h.gov.Dispatch(ctx, db, mtx.Payload)
	case mtx.Method != "":
		res, err = h.invoker.Invoke(ctx, db, code.Call{
			Caller:   SelfAddress(),
			Contract: mtx.Destination,
			Method:   mtx.Method,
			Payload:  mtx.Payload,
			Value:    mtx.Value,
		})
	case mtx.Value > 0:
		err = h.bank.MoveCoins(db, SelfAddress(), mtx.Destination, mtx.Value)
		res = &vault.DeliverResult{Tags: cash.TransferTags(SelfAddress(), mtx.Destination, mtx.Value)}
	default:
		res = &vault.DeliverResult{}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "transaction %d", mtx.ID)
	}
	res.Tags = append(eventTags("execute", "txid", uitoa(mtx.ID), "owner", caller.String()), res.Tags...)
	return res, nil
}

func (h *ExecuteHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*Transaction, vault.Address, error) {
	var msg ExecuteMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := callerOwner(ctx, db, h.auth, h.store)
	if err != nil {
		return nil, nil, err
	}
	mtx, err := h.store.Transaction(db, msg.TxID)
	if err != nil {
		return nil, nil, err
	}
	if mtx.Executed {
		return nil, nil, errors.Wrapf(ErrAlreadyExecuted, "id %d", mtx.ID)
	}
	w, err := h.store.Wallet(db)
	if err != nil {
		return nil, nil, err
	}
	count, err := h.store.ApprovalCount(db, w, mtx.ID)
	if err != nil {
		return nil, nil, err
	}
	if count < w.Required {
		return nil, nil, errors.Wrapf(ErrThresholdNotMet, "%d of %d approvals", count, w.Required)
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := CanExecute(w, mtx, now); err != nil {
		return nil, nil, err
	}
	return mtx, caller, nil
}

// DepositHandler moves value from any account to the wallet.
type DepositHandler struct {
	auth  x.Authenticator
	store *Store
	bank  Bank
}

var _ vault.Handler = (*DepositHandler)(nil)

func (h *DepositHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h *DepositHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bank.MoveCoins(db, msg.Source, SelfAddress(), msg.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	return &vault.DeliverResult{
		Tags: eventTags("deposit", "source", msg.Source.String(), "amount", uitoa(msg.Amount)),
	}, nil
}

func (h *DepositHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*DepositMsg, error) {
	var msg DepositMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	if ok, err := h.store.IsDeployed(db); err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.Wrap(errors.ErrNotFound, "wallet not deployed")
	}
	return &msg, nil
}
