package vaulttest

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
)

func TestAuthOwners(t *testing.T) {
	alice := NewCondition()
	bob := NewCondition()
	carol := NewCondition()

	cases := map[string]struct {
		auth      Auth
		wantConds int
		owners    []vault.Condition
		strangers []vault.Condition
	}{
		"nobody signed": {
			auth:      Auth{},
			wantConds: 0,
			strangers: []vault.Condition{alice, bob},
		},
		"single owner": {
			auth:      Auth{Signer: alice},
			wantConds: 1,
			owners:    []vault.Condition{alice},
			strangers: []vault.Condition{bob},
		},
		"co-signing owners": {
			auth:      Auth{Signers: []vault.Condition{alice, bob}},
			wantConds: 2,
			owners:    []vault.Condition{alice, bob},
			strangers: []vault.Condition{carol},
		},
		"signer and co-signers are merged": {
			auth:      Auth{Signer: carol, Signers: []vault.Condition{alice}},
			wantConds: 2,
			owners:    []vault.Condition{alice, carol},
			strangers: []vault.Condition{bob},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			if got := len(tc.auth.GetConditions(ctx)); got != tc.wantConds {
				t.Fatalf("want %d conditions, got %d", tc.wantConds, got)
			}
			for _, c := range tc.owners {
				if !tc.auth.HasAddress(ctx, c.Address()) {
					t.Errorf("owner %s not authenticated", c.Address())
				}
			}
			for _, c := range tc.strangers {
				if tc.auth.HasAddress(ctx, c.Address()) {
					t.Errorf("stranger %s authenticated", c.Address())
				}
			}
		})
	}
}

func TestCtxAuthOwners(t *testing.T) {
	alice := NewCondition()
	bob := NewCondition()

	cases := map[string]struct {
		ctx       func(a *CtxAuth) vault.Context
		owners    []vault.Condition
		strangers []vault.Condition
	}{
		"fresh context carries no owner": {
			ctx:       func(*CtxAuth) vault.Context { return context.Background() },
			strangers: []vault.Condition{alice, bob},
		},
		"approving owner": {
			ctx: func(a *CtxAuth) vault.Context {
				return a.SetConditions(context.Background(), alice)
			},
			owners:    []vault.Condition{alice},
			strangers: []vault.Condition{bob},
		},
		"later call replaces the owners": {
			ctx: func(a *CtxAuth) vault.Context {
				ctx := a.SetConditions(context.Background(), alice)
				return a.SetConditions(ctx, bob)
			},
			owners:    []vault.Condition{bob},
			strangers: []vault.Condition{alice},
		},
		"conditions under another key are ignored": {
			ctx: func(*CtxAuth) vault.Context {
				other := &CtxAuth{Key: "other"}
				return other.SetConditions(context.Background(), alice)
			},
			strangers: []vault.Condition{alice},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &CtxAuth{Key: "wallet"}
			ctx := tc.ctx(auth)

			if got := auth.GetConditions(ctx); len(got) != len(tc.owners) {
				t.Fatalf("want %d conditions, got %d", len(tc.owners), len(got))
			}
			for _, c := range tc.owners {
				if !auth.HasAddress(ctx, c.Address()) {
					t.Errorf("owner %s not authenticated", c.Address())
				}
			}
			for _, c := range tc.strangers {
				if auth.HasAddress(ctx, c.Address()) {
					t.Errorf("stranger %s authenticated", c.Address())
				}
			}
		})
	}
}
