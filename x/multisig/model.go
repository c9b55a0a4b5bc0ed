package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

const (
	// minOwners is the smallest owner set the wallet can have.
	minOwners = 2

	maxMethodSize = 64
)

// Wallet is the singleton holding the owner set, the threshold and the
// timelock settings.
type Wallet struct {
	// Owners is ordered by the time of joining.
	Owners []vault.Address `json:"owners"`
	// Required is the number of owner approvals a transaction needs.
	Required       uint32             `json:"required"`
	ExecutionDelay vault.UnixDuration `json:"execution_delay"`
	UpgradeDelay   vault.UnixDuration `json:"upgrade_delay"`
	// PendingUpgrade is nil unless an upgrade was proposed.
	PendingUpgrade *PendingUpgrade `json:"pending_upgrade,omitempty"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	var errs error
	if len(w.Owners) < minOwners {
		errs = errors.AppendField(errs, "Owners", errors.Wrapf(errors.ErrModel, "at least %d owners required", minOwners))
	}
	for i, o := range w.Owners {
		if err := o.Validate(); err != nil {
			errs = errors.AppendField(errs, "Owners", errors.Wrapf(err, "owner %d", i))
			continue
		}
		for _, prev := range w.Owners[:i] {
			if prev.Equals(o) {
				errs = errors.AppendField(errs, "Owners", errors.Wrapf(errors.ErrDuplicate, "owner %s", o))
			}
		}
	}
	errs = errors.AppendField(errs, "Required", validateRequired(w.Required, len(w.Owners)))
	if w.PendingUpgrade != nil {
		errs = errors.AppendField(errs, "PendingUpgrade", w.PendingUpgrade.Validate())
	}
	return errs
}

func (w *Wallet) Marshal() ([]byte, error) {
	return vault.Marshal(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, w)
}

// PendingUpgrade is a code replacement waiting for the upgrade delay.
type PendingUpgrade struct {
	ProposedAt vault.UnixTime `json:"proposed_at"`
	Code       []byte         `json:"code"`
}

func (p *PendingUpgrade) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "ProposedAt", p.ProposedAt.Validate())
	if len(p.Code) == 0 {
		errs = errors.AppendField(errs, "Code", errors.ErrEmpty)
	}
	return errs
}

// Transaction is an action submitted by an owner. Once executed, the
// transaction is never modified again.
type Transaction struct {
	ID          uint64        `json:"id"`
	Destination vault.Address `json:"destination"`
	// Method is empty for a plain value transfer.
	Method  string `json:"method,omitempty"`
	Value   uint64 `json:"value"`
	Payload []byte `json:"payload,omitempty"`
	// ThresholdReachedAt is zero until the required number of approvals
	// is collected. It is reset when an approval is revoked at threshold.
	ThresholdReachedAt vault.UnixTime `json:"threshold_reached_at"`
	Executed           bool           `json:"executed"`
	Submitter          vault.Address  `json:"submitter"`
	SubmittedAt        vault.UnixTime `json:"submitted_at"`
}

var _ orm.Model = (*Transaction)(nil)

func (t *Transaction) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Destination", t.Destination.Validate())
	errs = errors.AppendField(errs, "Submitter", t.Submitter.Validate())
	if len(t.Method) > maxMethodSize {
		errs = errors.AppendField(errs, "Method", errors.Wrap(errors.ErrInput, "too long"))
	}
	if t.ThresholdReachedAt != 0 {
		errs = errors.AppendField(errs, "ThresholdReachedAt", t.ThresholdReachedAt.Validate())
	}
	errs = errors.AppendField(errs, "SubmittedAt", t.SubmittedAt.Validate())
	return errs
}

func (t *Transaction) Marshal() ([]byte, error) {
	return vault.Marshal(t)
}

func (t *Transaction) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, t)
}

// Owner is the index entry of a wallet owner.
type Owner struct {
	AddedAt vault.UnixTime `json:"added_at"`
}

var _ orm.Model = (*Owner)(nil)

func (o *Owner) Validate() error {
	return nil
}

func (o *Owner) Marshal() ([]byte, error) {
	return vault.Marshal(o)
}

func (o *Owner) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, o)
}

// Approval is the approval bit of a single owner for a transaction. A
// missing record means the owner did not approve.
type Approval struct {
	ApprovedAt vault.UnixTime `json:"approved_at"`
}

var _ orm.Model = (*Approval)(nil)

func (a *Approval) Validate() error {
	return nil
}

func (a *Approval) Marshal() ([]byte, error) {
	return vault.Marshal(a)
}

func (a *Approval) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, a)
}

var walletKey = []byte("self")

// Store keeps all wallet state. It is the only component writing to it.
type Store struct {
	wallets   orm.ModelBucket
	owners    orm.ModelBucket
	approvals orm.ModelBucket
	txs       orm.ModelBucket
	size      orm.Sequence
}

// NewStore returns a store using the default bucket names.
func NewStore() *Store {
	return &Store{
		wallets:   orm.NewModelBucket("wallet", &Wallet{}),
		owners:    orm.NewModelBucket("owner", &Owner{}),
		approvals: orm.NewModelBucket("approval", &Approval{}),
		txs:       orm.NewModelBucket("mtx", &Transaction{}),
		size:      orm.NewSequence("multisig", "size"),
	}
}

// Wallet returns the wallet. ErrNotFound is returned if the wallet was not
// deployed.
func (s *Store) Wallet(db vault.ReadOnlyKVStore) (*Wallet, error) {
	var w Wallet
	if err := s.wallets.One(db, walletKey, &w); err != nil {
		return nil, errors.Wrap(err, "wallet")
	}
	return &w, nil
}

// SaveWallet validates and stores the wallet.
func (s *Store) SaveWallet(db vault.KVStore, w *Wallet) error {
	return s.wallets.Put(db, walletKey, w)
}

// IsDeployed returns true if a wallet was created in given store.
func (s *Store) IsDeployed(db vault.ReadOnlyKVStore) (bool, error) {
	switch err := s.wallets.Has(db, walletKey); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}
