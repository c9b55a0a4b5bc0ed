package vaulttest

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

func TestDecoratorGatesHandler(t *testing.T) {
	cases := map[string]struct {
		decorator      Decorator
		handler        Handler
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantLog        string
		// Calls that must reach the wrapped handler.
		wantChecks   int
		wantDelivers int
	}{
		"calls pass through": {
			handler:      Handler{DeliverResult: vault.DeliverResult{Log: "executed"}},
			wantLog:      "executed",
			wantChecks:   1,
			wantDelivers: 1,
		},
		"rejected on check only": {
			decorator:    Decorator{CheckErr: errors.ErrUnauthorized},
			handler:      Handler{DeliverResult: vault.DeliverResult{Log: "executed"}},
			wantCheckErr: errors.ErrUnauthorized,
			wantLog:      "executed",
			wantDelivers: 1,
		},
		"rejected on deliver only": {
			decorator:      Decorator{DeliverErr: errors.ErrImmutable},
			wantDeliverErr: errors.ErrImmutable,
			wantChecks:     1,
		},
		"handler error is returned as is": {
			handler:        Handler{CheckErr: errors.ErrNotFound, DeliverErr: errors.ErrState},
			wantCheckErr:   errors.ErrNotFound,
			wantDeliverErr: errors.ErrState,
			wantChecks:     1,
			wantDelivers:   1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			h := Decorate(&tc.handler, &tc.decorator)
			ctx := context.Background()

			if _, err := h.Check(ctx, nil, nil); !tc.wantCheckErr.Is(err) {
				t.Fatalf("want %q check error, got %+v", tc.wantCheckErr, err)
			}
			res, err := h.Deliver(ctx, nil, nil)
			if !tc.wantDeliverErr.Is(err) {
				t.Fatalf("want %q deliver error, got %+v", tc.wantDeliverErr, err)
			}
			if err == nil && res.Log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, res.Log)
			}

			if got := tc.decorator.CallCount(); got != 2 {
				t.Errorf("want 2 decorator calls, got %d", got)
			}
			assertHCounts(t, &tc.handler, tc.wantChecks, tc.wantDelivers)
		})
	}
}

//nolint
func TestDecoratorCountsFailedCalls(t *testing.T) {
	d := Decorator{DeliverErr: errors.ErrUnauthorized}
	h := Decorate(&Handler{}, &d)

	for i := 0; i < 3; i++ {
		h.Check(nil, nil, nil)
	}
	h.Deliver(nil, nil, nil)
	assertDCounts(t, &d, 3, 1)

	d.DeliverErr = nil
	h.Deliver(nil, nil, nil)
	assertDCounts(t, &d, 3, 2)
	if got := d.CallCount(); got != 5 {
		t.Errorf("want 5 calls, got %d", got)
	}
}

func assertDCounts(t *testing.T, d *Decorator, wantCheck, wantDeliver int) {
	t.Helper()
	if got := d.CheckCallCount(); got != wantCheck {
		t.Errorf("want %d checks, got %d", wantCheck, got)
	}
	if got := d.DeliverCallCount(); got != wantDeliver {
		t.Errorf("want %d delivers, got %d", wantDeliver, got)
	}
}
