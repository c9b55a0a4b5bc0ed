package assert

import (
	"testing"

	"github.com/iov-one/vault/errors"
)

func TestNil(t *testing.T) {
	var nilErr *errors.Error
	cases := map[string]struct {
		value    interface{}
		wantFail bool
	}{
		"untyped nil":      {value: nil},
		"typed nil":        {value: nilErr},
		"nil slice":        {value: []byte(nil)},
		"error":            {value: errors.ErrEmpty, wantFail: true},
		"empty slice":      {value: []byte{}, wantFail: true},
		"zero value int":   {value: 0, wantFail: true},
		"non empty string": {value: "owner", wantFail: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			Nil(mock, tc.value)
			if failed := mock.failcalls > 0; failed != tc.wantFail {
				t.Fatalf("want fail=%v, got %d failures", tc.wantFail, mock.failcalls)
			}
		})
	}
}

func TestEqualAndPanics(t *testing.T) {
	mock := &tmock{TB: t}
	Equal(mock, []string{"a", "b"}, []string{"a", "b"})
	Equal(mock, uint32(2), uint32(2))
	Panics(mock, func() { panic("boom") })
	if mock.failcalls != 0 {
		t.Fatalf("unexpected failures: %d", mock.failcalls)
	}

	Equal(mock, uint32(2), 2)
	Panics(mock, func() {})
	if mock.failcalls != 2 {
		t.Fatalf("want 2 failures, got %d", mock.failcalls)
	}
}

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		want     error
		got      error
		wantFail bool
	}{
		"same error": {
			want: errors.ErrState,
			got:  errors.ErrState,
		},
		"wrapped twice": {
			want: errors.ErrState,
			got:  errors.Wrap(errors.Wrap(errors.ErrState, "ledger"), "init"),
		},
		"different error": {
			want:     errors.ErrState,
			got:      errors.ErrInput,
			wantFail: true,
		},
		"nil expected": {
			want:     nil,
			got:      errors.ErrState,
			wantFail: true,
		},
		"nil got": {
			want:     errors.ErrState,
			got:      nil,
			wantFail: true,
		},
		"both nil": {},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			IsErr(mock, tc.want, tc.got)
			if failed := mock.failcalls > 0; failed != tc.wantFail {
				t.Fatalf("want fail=%v, got %d failures", tc.wantFail, mock.failcalls)
			}
		})
	}
}

func TestFieldError(t *testing.T) {
	walletErr := errors.Append(
		errors.Field("Owners", errors.ErrDuplicate, "owner listed twice"),
		errors.Field("Required", errors.ErrInput, "above owner count"),
	)

	cases := map[string]struct {
		err      error
		field    string
		want     *errors.Error
		wantFail bool
	}{
		"field error found": {
			err:   walletErr,
			field: "Owners",
			want:  errors.ErrDuplicate,
		},
		"field error of a different kind": {
			err:      walletErr,
			field:    "Required",
			want:     errors.ErrDuplicate,
			wantFail: true,
		},
		"nil matches a field without error": {
			err:   walletErr,
			field: "ExecutionDelay",
		},
		"nil fails when the field has an error": {
			err:      walletErr,
			field:    "Owners",
			wantFail: true,
		},
		"error expected but none returned": {
			field:    "Owners",
			want:     errors.ErrDuplicate,
			wantFail: true,
		},
		"a field may fail only once": {
			err: errors.Append(
				errors.Field("Owners", errors.ErrDuplicate, "first"),
				errors.Field("Owners", errors.ErrDuplicate, "second"),
			),
			field:    "Owners",
			want:     errors.ErrDuplicate,
			wantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			FieldError(mock, tc.err, tc.field, tc.want)
			if failed := mock.failcalls > 0; failed != tc.wantFail {
				t.Fatalf("want fail=%v, got %d failures", tc.wantFail, mock.failcalls)
			}
		})
	}
}

// tmock counts failure calls instead of stopping the test.
type tmock struct {
	testing.TB
	failcalls int
}

func (t *tmock) Error(args ...interface{}) {
	t.TB.Log(args...)
	t.failcalls++
}

func (t *tmock) Errorf(s string, args ...interface{}) {
	t.TB.Logf(s, args...)
	t.failcalls++
}

func (t *tmock) Fatal(args ...interface{}) {
	t.TB.Log(args...)
	t.failcalls++
}

func (t *tmock) Fatalf(s string, args ...interface{}) {
	t.TB.Logf(s, args...)
	t.failcalls++
}
