package cash

import (
	"math"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCoins(t *testing.T) {
	kv := store.MemStore()
	addr := vaulttest.RandomAddr(t)
	addr2 := vaulttest.RandomAddr(t)

	controller := NewController(NewBucket())

	got, err := controller.Balance(kv, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	require.NoError(t, controller.IssueCoins(kv, addr, 500))
	require.NoError(t, controller.IssueCoins(kv, addr, 250))
	require.NoError(t, controller.IssueCoins(kv, addr2, 1))

	got, err = controller.Balance(kv, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), got)
	got, err = controller.Balance(kv, addr2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got)

	// overflow is rejected
	err = controller.IssueCoins(kv, addr, math.MaxUint64)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestMoveCoins(t *testing.T) {
	src := vaulttest.RandomAddr(t)
	dest := vaulttest.RandomAddr(t)

	cases := map[string]struct {
		initial  uint64
		src      []byte
		dest     []byte
		amount   uint64
		wantErr  *errors.Error
		wantSrc  uint64
		wantDest uint64
	}{
		"move part": {
			initial:  1000,
			src:      src,
			dest:     dest,
			amount:   400,
			wantSrc:  600,
			wantDest: 400,
		},
		"move everything": {
			initial:  1000,
			src:      src,
			dest:     dest,
			amount:   1000,
			wantSrc:  0,
			wantDest: 1000,
		},
		"move to self": {
			initial:  1000,
			src:      src,
			dest:     src,
			amount:   300,
			wantSrc:  1000,
			wantDest: 0,
		},
		"not enough funds": {
			initial: 1000,
			src:     src,
			dest:    dest,
			amount:  1001,
			wantErr: errors.ErrInsufficientAmount,
			wantSrc: 1000,
		},
		"zero amount": {
			initial: 1000,
			src:     src,
			dest:    dest,
			amount:  0,
			wantErr: errors.ErrAmount,
			wantSrc: 1000,
		},
		"sender account does not exist": {
			src:     dest,
			dest:    src,
			amount:  1,
			wantErr: errors.ErrEmpty,
		},
		"invalid destination": {
			initial: 1000,
			src:     src,
			dest:    []byte("short"),
			amount:  1,
			wantErr: errors.ErrInput,
			wantSrc: 1000,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			controller := NewController(NewBucket())
			if tc.initial > 0 {
				require.NoError(t, controller.IssueCoins(kv, src, tc.initial))
			}

			err := controller.MoveCoins(kv, tc.src, tc.dest, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			got, err := controller.Balance(kv, src)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, got)
			if !dest.Equals(tc.src) {
				got, err = controller.Balance(kv, dest)
				require.NoError(t, err)
				assert.Equal(t, tc.wantDest, got)
			}
		})
	}
}
