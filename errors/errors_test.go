package errors

import (
	stdlib "errors"
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestIs(t *testing.T) {
	released := Wrapf(ErrInvalidState, "escrow %d released", 1)

	cases := map[string]struct {
		root *Error
		err  error
		want bool
	}{
		"root itself":                      {root: ErrNotFound, err: ErrNotFound, want: true},
		"another root":                     {root: ErrNotFound, err: ErrUnauthorized},
		"wrapped once":                     {root: ErrInvalidState, err: released, want: true},
		"wrapped twice":                    {root: ErrInvalidState, err: Wrap(released, "refund"), want: true},
		"wrapped by pkg/errors":            {root: ErrNotFound, err: errors.Wrap(ErrNotFound, "escrow 9"), want: true},
		"wrapped root of another kind":     {root: ErrUnauthorized, err: released},
		"stdlib error":                     {root: ErrNotFound, err: stdlib.New("not found")},
		"wrapped stdlib error":             {root: ErrNotFound, err: Wrap(io.EOF, "read")},
		"nil root matches nil":             {root: nil, err: nil, want: true},
		"nil root matches typed nil":       {root: nil, err: (*customError)(nil), want: true},
		"nil root does not match an error": {root: nil, err: ErrNotFound},
		"root does not match nil":          {root: ErrNotFound, err: nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.root.Is(tc.err); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

type customError struct{}

func (customError) Error() string { return "custom error" }

func TestWrap(t *testing.T) {
	if err := Wrap(nil, "nothing to wrap"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	err := Wrap(Wrap(io.EOF, "load escrow"), "release")
	if got := err.Error(); got != "release: load escrow: EOF" {
		t.Fatalf("unexpected message: %q", got)
	}
	if stackTrace(err) == nil {
		t.Fatal("stack trace expected")
	}
	if errors.Cause(err) != io.EOF {
		t.Fatal("pkg/errors must find the root cause")
	}
	if errors.Cause(ErrUnauthorized) != ErrUnauthorized {
		t.Fatal("a root error is its own cause")
	}
}

func TestRegisterDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	Register(ErrNotFound.Code(), "again")
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("nil seller")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
	if code, log := Info(err, false); code != ErrPanic.Code() || log != "nil seller: panic" {
		t.Fatalf("unexpected info: %d %q", code, log)
	}
}

func TestInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"root error": {
			err:      ErrNotFound,
			wantCode: 3,
			wantLog:  "not found",
		},
		"wrapped error keeps all descriptions": {
			err:      Wrap(Wrapf(ErrUnauthorized, "signer %s", "B"), "refund"),
			wantCode: 2,
			wantLog:  "refund: signer B: unauthorized",
		},
		"code found through a foreign wrap": {
			err:      errors.Wrap(Wrapf(ErrInvalidState, "escrow %d released", 3), "refund"),
			wantCode: 10,
			wantLog:  "refund: escrow 3 released: invalid state",
		},
		"nil is success": {
			err:      nil,
			wantCode: SuccessCode,
		},
		"typed nil is success": {
			err:      (*Error)(nil),
			wantCode: SuccessCode,
		},
		"stdlib error is redacted": {
			err:      io.EOF,
			wantCode: 1,
			wantLog:  "internal error",
		},
		"wrapped stdlib error is redacted": {
			err:      Wrap(io.EOF, "cannot read escrow"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"stdlib error is shown in debug mode": {
			err:      io.EOF,
			debug:    true,
			wantCode: 1,
			wantLog:  "EOF",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := Info(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}
