package code

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const pathCallMsg = "code/call"

func init() {
	vault.RegisterMsg(&CallMsg{}, pathCallMsg)
}

// CallMsg invokes a contract method on behalf of the source.
type CallMsg struct {
	Source   vault.Address `json:"source"`
	Contract vault.Address `json:"contract"`
	Method   string        `json:"method"`
	Payload  []byte        `json:"payload,omitempty"`
	Value    uint64        `json:"value,omitempty"`
}

var _ vault.Msg = (*CallMsg)(nil)

func (CallMsg) Path() string {
	return pathCallMsg
}

func (m *CallMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Contract", m.Contract.Validate())
	if m.Method == "" {
		errs = errors.AppendField(errs, "Method", errors.ErrEmpty)
	}
	return errs
}

func (m *CallMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *CallMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}
