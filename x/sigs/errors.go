package sigs

import "github.com/iov-one/vault/errors"

// ErrInvalidSequence is returned when a signature nonce does not match the
// nonce stored for the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
