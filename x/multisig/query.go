package multisig

import (
	"github.com/iov-one/vault"
)

// TransactionView is a transaction together with the current owners that
// approved it.
type TransactionView struct {
	*Transaction
	Approvals []vault.Address `json:"approvals"`
}

// WalletView describes the wallet state.
type WalletView struct {
	Address        vault.Address      `json:"address"`
	Owners         []vault.Address    `json:"owners"`
	Required       uint32             `json:"required"`
	ExecutionDelay vault.UnixDuration `json:"execution_delay"`
	UpgradeDelay   vault.UnixDuration `json:"upgrade_delay"`
	PendingUpgrade *PendingUpgrade    `json:"pending_upgrade,omitempty"`
	Transactions   uint64             `json:"transactions"`
}

// QueryWallet returns the wallet description.
func (s *Store) QueryWallet(db vault.ReadOnlyKVStore) (*WalletView, error) {
	w, err := s.Wallet(db)
	if err != nil {
		return nil, err
	}
	size, err := s.Size(db)
	if err != nil {
		return nil, err
	}
	return &WalletView{
		Address:        SelfAddress(),
		Owners:         w.Owners,
		Required:       w.Required,
		ExecutionDelay: w.ExecutionDelay,
		UpgradeDelay:   w.UpgradeDelay,
		PendingUpgrade: w.PendingUpgrade,
		Transactions:   size,
	}, nil
}

// QueryTransaction returns a single transaction with its approvals.
func (s *Store) QueryTransaction(db vault.ReadOnlyKVStore, id uint64) (*TransactionView, error) {
	tx, err := s.Transaction(db, id)
	if err != nil {
		return nil, err
	}
	approvals, err := s.Approvals(db, id)
	if err != nil {
		return nil, err
	}
	return &TransactionView{Transaction: tx, Approvals: approvals}, nil
}

// QueryTransactions returns all transactions with their approvals, ordered
// by identifier.
func (s *Store) QueryTransactions(db vault.ReadOnlyKVStore) ([]TransactionView, error) {
	w, err := s.Wallet(db)
	if err != nil {
		return nil, err
	}
	txs, err := s.Transactions(db)
	if err != nil {
		return nil, err
	}
	res := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		approvals, err := s.approvers(db, w, tx.ID)
		if err != nil {
			return nil, err
		}
		res = append(res, TransactionView{Transaction: tx, Approvals: approvals})
	}
	return res, nil
}
