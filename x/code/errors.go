package code

import "github.com/iov-one/vault/errors"

var (
	ErrNotContract   = errors.Register(1060, "not a contract")
	ErrUnknownCode   = errors.Register(1061, "unknown contract code")
	ErrAlreadyExists = errors.Register(1062, "contract already deployed")
)
