package sigs

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

func init() {
	vault.RegisterMsg(&BumpSequenceMsg{}, pathBumpSequenceMsg)
}

// BumpSequenceMsg increments the nonce of the main signer. This allows to
// invalidate transactions that were signed but not submitted yet.
type BumpSequenceMsg struct {
	// Increment is the total value the sequence is moved by, including the
	// increment done by the signature verification.
	Increment uint32 `json:"increment"`
}

var _ vault.Msg = (*BumpSequenceMsg)(nil)

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	return vault.Marshal(msg)
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, msg)
}
