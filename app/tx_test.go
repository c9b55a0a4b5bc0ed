package app

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/sigs"
)

func TestTxRoundTrip(t *testing.T) {
	key := vaulttest.NewKey()
	msg := &cash.SendMsg{
		Source:      key.PublicKey().Address(),
		Destination: vaulttest.RandomAddr(t),
		Amount:      10,
	}
	tx := NewTx(msg)
	assert.Nil(t, tx.Sign(key, "test-chain", 0))

	raw, err := tx.Marshal()
	assert.Nil(t, err)
	decoded, err := DecodeTx(raw)
	assert.Nil(t, err)

	got, err := decoded.GetMsg()
	assert.Nil(t, err)
	assert.Equal(t, msg, got)
	assert.Equal(t, 1, len(decoded.(*Tx).GetSignatures()))

	// Sign bytes do not depend on signatures.
	b1, err := tx.GetSignBytes()
	assert.Nil(t, err)
	b2, err := NewTx(msg).GetSignBytes()
	assert.Nil(t, err)
	assert.Equal(t, b1, b2)
}

func TestDecodeTx(t *testing.T) {
	invalid, err := NewTx(&cash.SendMsg{Amount: 1}).Marshal()
	assert.Nil(t, err)
	empty, err := (&Tx{}).Marshal()
	assert.Nil(t, err)

	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"no data":         {raw: nil, wantErr: errors.ErrEmpty},
		"garbage":         {raw: []byte("not a transaction"), wantErr: errors.ErrType},
		"no message":      {raw: empty, wantErr: errors.ErrEmpty},
		"invalid message": {raw: invalid, wantErr: errors.ErrEmpty},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := DecodeTx(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestTxSignatureVerification(t *testing.T) {
	key := vaulttest.NewKey()
	send := func() *Tx {
		return NewTx(&cash.SendMsg{
			Source:      key.PublicKey().Address(),
			Destination: vaulttest.RandomAddr(t),
			Amount:      1,
		})
	}
	tx := send()
	assert.Nil(t, tx.Sign(key, "test-chain", 0))

	db := store.MemStore()
	ctx := vault.WithChainID(context.Background(), "test-chain")
	h := ChainDecorators(sigs.NewDecorator()).WithHandler(&vaulttest.Handler{})
	_, err := h.Deliver(ctx, db, tx)
	assert.Nil(t, err)

	// The same signature cannot be used twice.
	_, err = h.Deliver(ctx, db, tx)
	assert.IsErr(t, sigs.ErrInvalidSequence, err)

	tx = send()
	assert.Nil(t, tx.Sign(key, "test-chain", 1))
	other := vault.WithChainID(context.Background(), "other-chain")
	_, err = h.Deliver(other, db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = h.Deliver(ctx, db, tx)
	assert.Nil(t, err)
}
