package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const (
	pathSubmitMsg   = "multisig/submit"
	pathApproveMsg  = "multisig/approve"
	pathRevokeMsg   = "multisig/revoke"
	pathExecuteMsg  = "multisig/execute"
	pathDepositMsg  = "multisig/deposit"
	pathAddOwnerMsg = "multisig/add_owner"

	pathRemoveOwnerMsg          = "multisig/remove_owner"
	pathReplaceOwnerMsg         = "multisig/replace_owner"
	pathChangeRequirementMsg    = "multisig/change_requirement"
	pathChangeExecutionDelayMsg = "multisig/change_execution_delay"
	pathChangeUpgradeDelayMsg   = "multisig/change_upgrade_delay"
	pathProposeUpgradeMsg       = "multisig/propose_upgrade"
	pathUpgradeMsg              = "multisig/upgrade"
	pathUpdateConfigurationMsg  = "multisig/update_configuration"
)

func init() {
	vault.RegisterMsg(&SubmitMsg{}, pathSubmitMsg)
	vault.RegisterMsg(&ApproveMsg{}, pathApproveMsg)
	vault.RegisterMsg(&RevokeMsg{}, pathRevokeMsg)
	vault.RegisterMsg(&ExecuteMsg{}, pathExecuteMsg)
	vault.RegisterMsg(&DepositMsg{}, pathDepositMsg)
	vault.RegisterMsg(&AddOwnerMsg{}, pathAddOwnerMsg)
	vault.RegisterMsg(&RemoveOwnerMsg{}, pathRemoveOwnerMsg)
	vault.RegisterMsg(&ReplaceOwnerMsg{}, pathReplaceOwnerMsg)
	vault.RegisterMsg(&ChangeRequirementMsg{}, pathChangeRequirementMsg)
	vault.RegisterMsg(&ChangeExecutionDelayMsg{}, pathChangeExecutionDelayMsg)
	vault.RegisterMsg(&ChangeUpgradeDelayMsg{}, pathChangeUpgradeDelayMsg)
	vault.RegisterMsg(&ProposeUpgradeMsg{}, pathProposeUpgradeMsg)
	vault.RegisterMsg(&UpgradeMsg{}, pathUpgradeMsg)
	vault.RegisterMsg(&UpdateConfigurationMsg{}, pathUpdateConfigurationMsg)
}

// Action is a governance message. It is accepted only when dispatched by
// the wallet while executing a transaction addressed to itself.
type Action interface {
	vault.Msg
	action()
}

// DecodeAction returns the governance message serialized in the payload.
func DecodeAction(payload []byte) (Action, error) {
	msg, err := vault.DecodeMsg(payload)
	if err != nil {
		return nil, err
	}
	a, ok := msg.(Action)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "%T is not a governance message", msg)
	}
	return a, nil
}

// EncodeAction returns the payload of a transaction that applies the
// governance message when executed.
func EncodeAction(a Action) ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a.Marshal()
}

// SubmitMsg appends a transaction to the wallet ledger.
type SubmitMsg struct {
	Destination vault.Address `json:"destination"`
	Method      string        `json:"method,omitempty"`
	Value       uint64        `json:"value"`
	Payload     []byte        `json:"payload,omitempty"`
}

var _ vault.Msg = (*SubmitMsg)(nil)

func (SubmitMsg) Path() string {
	return pathSubmitMsg
}

func (m *SubmitMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Method) > maxMethodSize {
		errs = errors.AppendField(errs, "Method", errors.Wrap(errors.ErrInput, "too long"))
	}
	if m.Destination.Equals(SelfAddress()) {
		if m.Value != 0 {
			errs = errors.AppendField(errs, "Value", errors.Wrap(errors.ErrAmount, "governance transaction cannot carry value"))
		}
		if m.Method != "" {
			errs = errors.AppendField(errs, "Method", errors.Wrap(errors.ErrInput, "governance transaction has no method"))
		}
		if _, err := DecodeAction(m.Payload); err != nil {
			errs = errors.AppendField(errs, "Payload", err)
		}
	}
	return errs
}

func (m *SubmitMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *SubmitMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// ApproveMsg sets the approval of the signing owner.
type ApproveMsg struct {
	TxID uint64 `json:"tx_id"`
}

var _ vault.Msg = (*ApproveMsg)(nil)

func (ApproveMsg) Path() string {
	return pathApproveMsg
}

func (m *ApproveMsg) Validate() error {
	return nil
}

func (m *ApproveMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *ApproveMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// RevokeMsg clears the approval of the signing owner.
type RevokeMsg struct {
	TxID uint64 `json:"tx_id"`
}

var _ vault.Msg = (*RevokeMsg)(nil)

func (RevokeMsg) Path() string {
	return pathRevokeMsg
}

func (m *RevokeMsg) Validate() error {
	return nil
}

func (m *RevokeMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *RevokeMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// ExecuteMsg executes an approved transaction.
type ExecuteMsg struct {
	TxID uint64 `json:"tx_id"`
}

var _ vault.Msg = (*ExecuteMsg)(nil)

func (ExecuteMsg) Path() string {
	return pathExecuteMsg
}

func (m *ExecuteMsg) Validate() error {
	return nil
}

func (m *ExecuteMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *ExecuteMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// DepositMsg moves value from the source account to the wallet. Anyone can
// deposit.
type DepositMsg struct {
	Source vault.Address `json:"source"`
	Amount uint64        `json:"amount"`
}

var _ vault.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// AddOwnerMsg appends a new owner.
type AddOwnerMsg struct {
	Owner vault.Address `json:"owner"`
}

var _ Action = (*AddOwnerMsg)(nil)

func (AddOwnerMsg) Path() string {
	return pathAddOwnerMsg
}

func (AddOwnerMsg) action() {}

func (m *AddOwnerMsg) Validate() error {
	return errors.AppendField(nil, "Owner", m.Owner.Validate())
}

func (m *AddOwnerMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *AddOwnerMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// RemoveOwnerMsg removes an owner. Its approvals stop counting.
type RemoveOwnerMsg struct {
	Owner vault.Address `json:"owner"`
}

var _ Action = (*RemoveOwnerMsg)(nil)

func (RemoveOwnerMsg) Path() string {
	return pathRemoveOwnerMsg
}

func (RemoveOwnerMsg) action() {}

func (m *RemoveOwnerMsg) Validate() error {
	return errors.AppendField(nil, "Owner", m.Owner.Validate())
}

func (m *RemoveOwnerMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *RemoveOwnerMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// ReplaceOwnerMsg swaps an owner for another address.
type ReplaceOwnerMsg struct {
	Old vault.Address `json:"old"`
	New vault.Address `json:"new"`
}

var _ Action = (*ReplaceOwnerMsg)(nil)

func (ReplaceOwnerMsg) Path() string {
	return pathReplaceOwnerMsg
}

func (ReplaceOwnerMsg) action() {}

func (m *ReplaceOwnerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Old", m.Old.Validate())
	errs = errors.AppendField(errs, "New", m.New.Validate())
	if m.Old.Equals(m.New) {
		errs = errors.AppendField(errs, "New", errors.Wrap(errors.ErrDuplicate, "same as the replaced owner"))
	}
	return errs
}

func (m *ReplaceOwnerMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *ReplaceOwnerMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// ChangeRequirementMsg sets the number of required approvals.
type ChangeRequirementMsg struct {
	Required uint32 `json:"required"`
}

var _ Action = (*ChangeRequirementMsg)(nil)

func (ChangeRequirementMsg) Path() string {
	return pathChangeRequirementMsg
}

func (ChangeRequirementMsg) action() {}

func (m *ChangeRequirementMsg) Validate() error {
	if m.Required == 0 {
		return errors.Field("Required", ErrInvalidThreshold, "must be greater than zero")
	}
	return nil
}

func (m *ChangeRequirementMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *ChangeRequirementMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// ChangeExecutionDelayMsg sets the execution timelock. Zero disables it.
type ChangeExecutionDelayMsg struct {
	Delay vault.UnixDuration `json:"delay"`
}

var _ Action = (*ChangeExecutionDelayMsg)(nil)

func (ChangeExecutionDelayMsg) Path() string {
	return pathChangeExecutionDelayMsg
}

func (ChangeExecutionDelayMsg) action() {}

func (m *ChangeExecutionDelayMsg) Validate() error {
	return nil
}

func (m *ChangeExecutionDelayMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *ChangeExecutionDelayMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// ChangeUpgradeDelayMsg sets the upgrade timelock. Zero disables it.
type ChangeUpgradeDelayMsg struct {
	Delay vault.UnixDuration `json:"delay"`
}

var _ Action = (*ChangeUpgradeDelayMsg)(nil)

func (ChangeUpgradeDelayMsg) Path() string {
	return pathChangeUpgradeDelayMsg
}

func (ChangeUpgradeDelayMsg) action() {}

func (m *ChangeUpgradeDelayMsg) Validate() error {
	return nil
}

func (m *ChangeUpgradeDelayMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *ChangeUpgradeDelayMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// ProposeUpgradeMsg stores a code replacement. A previous proposal is
// overwritten.
type ProposeUpgradeMsg struct {
	Code []byte `json:"code"`
}

var _ Action = (*ProposeUpgradeMsg)(nil)

func (ProposeUpgradeMsg) Path() string {
	return pathProposeUpgradeMsg
}

func (ProposeUpgradeMsg) action() {}

func (m *ProposeUpgradeMsg) Validate() error {
	if len(m.Code) == 0 {
		return errors.Field("Code", errors.ErrEmpty, "code required")
	}
	return nil
}

func (m *ProposeUpgradeMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *ProposeUpgradeMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// UpgradeMsg replaces the wallet code with the pending proposal.
type UpgradeMsg struct {
}

var _ Action = (*UpgradeMsg)(nil)

func (UpgradeMsg) Path() string {
	return pathUpgradeMsg
}

func (UpgradeMsg) action() {}

func (m *UpgradeMsg) Validate() error {
	return nil
}

func (m *UpgradeMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *UpgradeMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}

// UpdateConfigurationMsg patches the configuration. Zero value fields of
// the patch are ignored.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

var _ Action = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (UpdateConfigurationMsg) action() {}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "patch required")
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return vault.Marshal(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, m)
}
