package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const (
	pathSendMsg = "cash/send"

	maxMemoSize int = 128
)

func init() {
	vault.RegisterMsg(&SendMsg{}, pathSendMsg)
}

// SendMsg moves value from the source to the destination account.
type SendMsg struct {
	Source      vault.Address `json:"source"`
	Destination vault.Address `json:"destination"`
	Amount      uint64        `json:"amount"`
	Memo        string        `json:"memo,omitempty"`
}

// Ensure we implement the Msg interface
var _ vault.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var errs error
	if s.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "Source", s.Source.Validate())
	errs = errors.AppendField(errs, "Destination", s.Destination.Validate())
	if len(s.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.ErrInput)
	}
	return errs
}

func (s *SendMsg) Marshal() ([]byte, error) {
	return vault.Marshal(s)
}

func (s *SendMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, s)
}
