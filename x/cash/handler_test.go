package cash

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	perm := vaulttest.NewCondition()
	perm2 := vaulttest.NewCondition()

	cases := map[string]struct {
		signers        []vault.Condition
		initial        uint64
		msg            vault.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantDest       uint64
	}{
		"empty message": {
			msg:            new(SendMsg),
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
		},
		"missing addresses": {
			msg:            &SendMsg{Amount: 10},
			wantCheckErr:   errors.ErrInput,
			wantDeliverErr: errors.ErrInput,
		},
		"source did not sign": {
			msg:            &SendMsg{Amount: 10, Source: perm.Address(), Destination: perm2.Address()},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"sender has no account": {
			signers:        []vault.Condition{perm},
			msg:            &SendMsg{Amount: 10, Source: perm.Address(), Destination: perm2.Address()},
			wantDeliverErr: errors.ErrEmpty,
		},
		"sender too poor": {
			signers:        []vault.Condition{perm},
			initial:        5,
			msg:            &SendMsg{Amount: 10, Source: perm.Address(), Destination: perm2.Address()},
			wantDeliverErr: errors.ErrInsufficientAmount,
		},
		"successful send": {
			signers:  []vault.Condition{perm},
			initial:  50,
			msg:      &SendMsg{Amount: 10, Source: perm.Address(), Destination: perm2.Address(), Memo: "rent"},
			wantDest: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &vaulttest.Auth{Signers: tc.signers}
			controller := NewController(NewBucket())
			h := NewSendHandler(auth, controller)

			kv := store.MemStore()
			if tc.initial > 0 {
				require.NoError(t, controller.IssueCoins(kv, perm.Address(), tc.initial))
			}
			tx := &vaulttest.Tx{Msg: tc.msg}
			ctx := context.Background()

			if _, err := h.Check(ctx, kv, tx); !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			res, err := h.Deliver(ctx, kv, tx)
			if !tc.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.wantDeliverErr != nil {
				return
			}
			assert.Equal(t, "transfer", res.TagValue("action"))
			assert.Equal(t, "10", res.TagValue("amount"))

			got, err := controller.Balance(kv, perm2.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.wantDest, got)
		})
	}
}
