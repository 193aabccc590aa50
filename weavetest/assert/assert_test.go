package assert

import (
	"testing"

	"github.com/iov-one/escrowd/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		ErrWant  error
		ErrGot   error
		WantFail bool
	}{
		"same error": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.ErrEmpty,
			WantFail: false,
		},
		"compared to nil": {
			ErrWant:  nil,
			ErrGot:   errors.ErrEmpty,
			WantFail: true,
		},
		"both nil": {
			ErrWant:  nil,
			ErrGot:   nil,
			WantFail: false,
		},
		"wrapped": {
			ErrWant:  errors.ErrNotFound,
			ErrGot:   errors.Wrap(errors.ErrNotFound, "escrow 7"),
			WantFail: false,
		},
		"different root": {
			ErrWant:  errors.ErrUnauthorized,
			ErrGot:   errors.Wrap(errors.ErrInvalidState, "released"),
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			IsErr(mock, tc.ErrWant, tc.ErrGot)
			failed := mock.failcalls > 0
			if tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestNilAndEqual(t *testing.T) {
	mock := &tmock{TB: t}

	var nilSlice []byte
	Nil(mock, nilSlice)
	Nil(mock, nil)
	Equal(mock, []byte("a"), []byte("a"))
	if mock.failcalls != 0 {
		t.Fatalf("want no failures, got %d", mock.failcalls)
	}

	Nil(mock, 0)
	Equal(mock, int64(1), 1)
	if mock.failcalls != 2 {
		t.Fatalf("want 2 failures, got %d", mock.failcalls)
	}
}

// tmock mocks testing.TB and only counts failure calls. It ignores all other
// input.
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
