package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
	"github.com/tendermint/tendermint/libs/common"
)

// Governance routes governance messages. A message is dispatched only as
// part of an executed transaction addressed to the wallet, with the wallet
// condition present in the context.
type Governance struct {
	handlers map[string]vault.Handler
}

var _ vault.Registry = (*Governance)(nil)

// NewGovernance returns a router of all governance messages of this
// package. Given authenticator must recognize the wallet condition.
func NewGovernance(auth x.Authenticator, store *Store, codes CodeStore) *Governance {
	g := &Governance{handlers: make(map[string]vault.Handler)}
	h := &governanceHandler{auth: auth, store: store, codes: codes}
	g.Handle(pathAddOwnerMsg, h)
	g.Handle(pathRemoveOwnerMsg, h)
	g.Handle(pathReplaceOwnerMsg, h)
	g.Handle(pathChangeRequirementMsg, h)
	g.Handle(pathChangeExecutionDelayMsg, h)
	g.Handle(pathChangeUpgradeDelayMsg, h)
	g.Handle(pathProposeUpgradeMsg, h)
	g.Handle(pathUpgradeMsg, h)
	g.Handle(pathUpdateConfigurationMsg, NewConfigHandler(auth))
	return g
}

// Handle registers a handler of a governance message. Registering the same
// path twice panics.
func (g *Governance) Handle(path string, h vault.Handler) {
	if _, ok := g.handlers[path]; ok {
		panic("governance path already registered: " + path)
	}
	g.handlers[path] = h
}

// register exposes all governance handlers in given registry, so that a
// direct call is rejected instead of being unknown.
func (g *Governance) register(r vault.Registry) {
	for path, h := range g.handlers {
		r.Handle(path, h)
	}
}

// Dispatch decodes the governance message and applies it on behalf of the
// wallet.
func (g *Governance) Dispatch(ctx vault.Context, db vault.KVStore, payload []byte) (*vault.DeliverResult, error) {
	action, err := DecodeAction(payload)
	if err != nil {
		return nil, errors.Wrap(err, "governance payload")
	}
	h, ok := g.handlers[action.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "no governance handler for %q", action.Path())
	}
	return h.Deliver(withSelf(ctx), db, &actionTx{msg: action})
}

// actionTx wraps a governance message so it can be passed to a handler.
type actionTx struct {
	msg vault.Msg
}

var _ vault.Tx = (*actionTx)(nil)

func (tx *actionTx) GetMsg() (vault.Msg, error) {
	return tx.msg, nil
}

func (tx *actionTx) Marshal() ([]byte, error) {
	return nil, errors.Wrap(errors.ErrHuman, "governance message is not serialized")
}

func (tx *actionTx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "governance message is not serialized")
}

type governanceHandler struct {
	auth  x.Authenticator
	store *Store
	codes CodeStore
}

var _ vault.Handler = (*governanceHandler)(nil)

func (h *governanceHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

func (h *governanceHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	action, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}

	var tags []common.KVPair
	switch m := action.(type) {
	case *AddOwnerMsg:
		if err := h.store.AddOwner(db, w, m.Owner, now); err != nil {
			return nil, err
		}
		tags = eventTags("add_owner", "owner", m.Owner.String())
	case *RemoveOwnerMsg:
		if ok, err := h.store.IsOwner(db, m.Owner); err != nil {
			return nil, err
		} else if !ok {
			return nil, errors.Wrapf(ErrNotOwner, "address %s", m.Owner)
		}
		if err := CanRemoveOwner(w); err != nil {
			return nil, err
		}
		if err := h.store.RemoveOwner(db, w, m.Owner); err != nil {
			return nil, err
		}
		tags = eventTags("remove_owner", "owner", m.Owner.String())
	case *ReplaceOwnerMsg:
		if err := h.store.ReplaceOwner(db, w, m.Old, m.New, now); err != nil {
			return nil, err
		}
		tags = eventTags("replace_owner", "old", m.Old.String(), "new", m.New.String())
	case *ChangeRequirementMsg:
		if err := SetRequired(w, m.Required); err != nil {
			return nil, err
		}
		tags = eventTags("change_requirement", "required", uitoa(uint64(m.Required)))
	case *ChangeExecutionDelayMsg:
		w.ExecutionDelay = m.Delay
		tags = eventTags("change_execution_delay", "delay", uitoa(uint64(m.Delay)))
	case *ChangeUpgradeDelayMsg:
		w.UpgradeDelay = m.Delay
		tags = eventTags("change_upgrade_delay", "delay", uitoa(uint64(m.Delay)))
	case *ProposeUpgradeMsg:
		w.PendingUpgrade = &PendingUpgrade{ProposedAt: now, Code: m.Code}
		tags = eventTags("propose_upgrade", "caller", SelfAddress().String())
	case *UpgradeMsg:
		if err := CanUpgrade(w, now); err != nil {
			return nil, err
		}
		if err := h.codes.SetCode(db, SelfAddress(), w.PendingUpgrade.Code); err != nil {
			return nil, errors.Wrap(err, "cannot replace wallet code")
		}
		w.PendingUpgrade = nil
		tags = eventTags("upgrade", "caller", SelfAddress().String())
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "unsupported governance message %T", action)
	}

	if err := h.store.SaveWallet(db, w); err != nil {
		return nil, errors.Wrap(err, "cannot save wallet")
	}
	return &vault.DeliverResult{Tags: tags}, nil
}

func (h *governanceHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (Action, *Wallet, error) {
	if !h.auth.HasAddress(ctx, SelfAddress()) {
		return nil, nil, ErrNotSelf
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot get transaction message")
	}
	action, ok := msg.(Action)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrType, "%T is not a governance message", msg)
	}
	if err := action.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid message")
	}
	w, err := h.store.Wallet(db)
	if err != nil {
		return nil, nil, err
	}
	return action, w, nil
}
