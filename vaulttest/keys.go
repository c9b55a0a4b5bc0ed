package vaulttest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() vault.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a valid random address genearted on the fly.
func RandomAddr(t testing.TB) vault.Address {
	raw := make([]byte, vault.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return vault.Address(raw)
}

// SequenceID returns the 8 byte big endian representation of given number,
// as used by sequence based keys.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
