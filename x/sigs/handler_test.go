package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
)

func TestBumpSequence(t *testing.T) {
	var (
		key1 = vaulttest.NewKey().PublicKey()
		key2 = vaulttest.NewKey().PublicKey()
	)

	cases := map[string]struct {
		// Before performing the test, initialize the database with given user data.
		InitData       []*UserData
		Msg            BumpSequenceMsg
		Signers        []vault.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		// Usual transaction processing additionally increments the
		// sequence, so the handler moves it by the requested value - 1.
		WantSequences []*UserData
	}{
		"great success": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 1},
				{Pubkey: key2, Sequence: 9},
			},
			Signers: []vault.Condition{key1.Condition()},
			Msg:     BumpSequenceMsg{Increment: 2},
			WantSequences: []*UserData{
				{Pubkey: key1, Sequence: 2},
				{Pubkey: key2, Sequence: 9},
			},
		},
		"incrementing sequence of the main signer": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 1},
				{Pubkey: key2, Sequence: 9},
			},
			Signers: []vault.Condition{
				key2.Condition(), // Main signer.
				key1.Condition(),
			},
			Msg: BumpSequenceMsg{Increment: 2},
			WantSequences: []*UserData{
				{Pubkey: key1, Sequence: 1},
				{Pubkey: key2, Sequence: 10},
			},
		},
		"increment of one changes nothing": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 5},
			},
			Signers: []vault.Condition{key1.Condition()},
			Msg:     BumpSequenceMsg{Increment: 1},
			WantSequences: []*UserData{
				{Pubkey: key1, Sequence: 5},
			},
		},
		"transaction with a missing signature is rejected": {
			Msg:            BumpSequenceMsg{Increment: 1},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"message with a zero sequence increment is invalid": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 1},
			},
			Msg:            BumpSequenceMsg{Increment: 0},
			WantCheckErr:   errors.ErrMsg,
			WantDeliverErr: errors.ErrMsg,
		},
		"user that we increment the sequence of must exist": {
			InitData: []*UserData{
				{Pubkey: key2, Sequence: 4},
			},
			Signers:        []vault.Condition{key1.Condition()},
			Msg:            BumpSequenceMsg{Increment: 421},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
		},
		"sequence increment value must not be greater than 1000": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 4},
			},
			Signers:        []vault.Condition{key1.Condition()},
			Msg:            BumpSequenceMsg{Increment: 1001},
			WantCheckErr:   errors.ErrMsg,
			WantDeliverErr: errors.ErrMsg,
		},
		"sequence increment value can be 1000": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 4},
			},
			Signers: []vault.Condition{key1.Condition()},
			Msg:     BumpSequenceMsg{Increment: 1000},
			WantSequences: []*UserData{
				{Pubkey: key1, Sequence: 1003},
			},
		},
		"successful sequence increment before counter overflow": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: maxSequenceValue - 20},
			},
			Signers: []vault.Condition{key1.Condition()},
			Msg:     BumpSequenceMsg{Increment: 20},
			WantSequences: []*UserData{
				{Pubkey: key1, Sequence: maxSequenceValue - 1},
			},
		},
		"sequence increment value overflow": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: maxSequenceValue - 20},
			},
			Signers:        []vault.Condition{key1.Condition()},
			Msg:            BumpSequenceMsg{Increment: 21},
			WantCheckErr:   errors.ErrOverflow,
			WantDeliverErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			bucket := NewBucket()
			db := store.MemStore()

			for i, data := range tc.InitData {
				if err := bucket.Save(db, data); err != nil {
					t.Fatalf("cannot save %d user: %s", i, err)
				}
			}

			auth := &vaulttest.CtxAuth{Key: "auth"}
			rt := &router{}
			RegisterRoutes(rt, auth)
			handler := rt.handlers[pathBumpSequenceMsg]

			ctx := auth.SetConditions(context.Background(), tc.Signers...)
			tx := vaulttest.Tx{Msg: &tc.Msg}

			cache := db.CacheWrap()
			if _, err := handler.Check(ctx, cache, &tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := handler.Deliver(ctx, db, &tx); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.WantDeliverErr != nil {
				return
			}

			for i, want := range tc.WantSequences {
				var got UserData
				if err := bucket.One(db, want.Pubkey.Address(), &got); err != nil {
					t.Fatalf("cannot get %d user: %s", i, err)
				}
				if got.Sequence != want.Sequence {
					t.Errorf("unexpected %d sequence: want %d, got %d", i, want.Sequence, got.Sequence)
				}
			}
		})
	}
}

type router struct {
	handlers map[string]vault.Handler
}

func (r *router) Handle(path string, h vault.Handler) {
	if r.handlers == nil {
		r.handlers = make(map[string]vault.Handler)
	}
	r.handlers[path] = h
}
