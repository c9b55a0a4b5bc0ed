package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// CanExecute returns an error unless the execution delay passed since the
// transaction reached the threshold. With no delay configured, a
// transaction is executable as soon as it has enough approvals.
func CanExecute(w *Wallet, tx *Transaction, now vault.UnixTime) error {
	if w.ExecutionDelay == 0 {
		return nil
	}
	if tx.ThresholdReachedAt.IsZero() {
		return errors.Wrap(ErrTimelockNotElapsed, "threshold time not recorded")
	}
	if !w.ExecutionDelay.Elapsed(tx.ThresholdReachedAt, now) {
		return errors.Wrapf(ErrTimelockNotElapsed, "executable at %s", tx.ThresholdReachedAt.Add(w.ExecutionDelay.Duration()))
	}
	return nil
}

// CanUpgrade returns an error unless an upgrade is pending and the upgrade
// delay passed since it was proposed.
func CanUpgrade(w *Wallet, now vault.UnixTime) error {
	if w.PendingUpgrade == nil {
		return ErrNoUpgradeProposed
	}
	if !w.UpgradeDelay.Elapsed(w.PendingUpgrade.ProposedAt, now) {
		return errors.Wrapf(ErrTimelockNotElapsed, "upgrade allowed at %s", w.PendingUpgrade.ProposedAt.Add(w.UpgradeDelay.Duration()))
	}
	return nil
}

// PendingUpgrade returns the proposed upgrade or nil.
func (s *Store) PendingUpgrade(db vault.ReadOnlyKVStore) (*PendingUpgrade, error) {
	w, err := s.Wallet(db)
	if err != nil {
		return nil, err
	}
	return w.PendingUpgrade, nil
}

func blockNow(ctx vault.Context) (vault.UnixTime, error) {
	t, err := vault.BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	return vault.AsUnixTime(t), nil
}
