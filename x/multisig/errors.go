package multisig

import "github.com/iov-one/vault/errors"

var (
	ErrNotOwner           = errors.Register(1030, "not an owner")
	ErrAlreadyOwner       = errors.Register(1031, "already an owner")
	ErrCannotRemoveOwner  = errors.Register(1032, "cannot remove owner")
	ErrInvalidThreshold   = errors.Register(1033, "invalid threshold")
	ErrTxNotFound         = errors.Register(1034, "transaction not found")
	ErrAlreadyApproved    = errors.Register(1035, "already approved")
	ErrNotApproved        = errors.Register(1036, "not approved")
	ErrAlreadyExecuted    = errors.Register(1037, "already executed")
	ErrThresholdNotMet    = errors.Register(1038, "threshold not met")
	ErrTimelockNotElapsed = errors.Register(1039, "timelock not elapsed")
	ErrNotSelf            = errors.Register(1040, "caller is not the wallet")
	ErrNoUpgradeProposed  = errors.Register(1041, "no upgrade proposed")
	ErrAlreadyDeployed    = errors.Register(1042, "wallet already deployed")
)
