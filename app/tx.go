package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/sigs"
)

// Tx is the transaction envelope accepted by the ledger. It carries a
// single message and the signatures of its signers.
type Tx struct {
	Msg        vault.Msg            `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`
}

var _ vault.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction.
func NewTx(msg vault.Msg) *Tx {
	return &Tx{Msg: msg}
}

func (tx *Tx) GetMsg() (vault.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return tx.Msg, nil
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// Sign appends the signature of given key, created with the next nonce
// of the signer.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, nonce int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, nonce)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return vault.Marshal(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, tx)
}

// DecodeTx is a vault.TxDecoder of the Tx envelope. The message is
// validated.
func DecodeTx(raw []byte) (vault.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "transaction")
	}
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "decode transaction")
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	return &tx, nil
}

var _ vault.TxDecoder = DecodeTx
