package x

import (
	"context"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/iov-one/escrowd/weavetest/assert"
)

func TestChainAuth(t *testing.T) {
	buyer := weavetest.NewCondition()
	seller := weavetest.NewCondition()
	stranger := weavetest.NewCondition()

	sigs := &weavetest.CtxAuth{Key: "sigs"}
	relay := &weavetest.CtxAuth{Key: "relay"}

	cases := map[string]struct {
		ctx       escrowd.Context
		auth      Authenticator
		wantConds []escrowd.Condition
		allowed   []escrowd.Condition
		denied    []escrowd.Condition
	}{
		"nobody signed": {
			ctx:    context.Background(),
			auth:   ChainAuth(sigs, relay),
			denied: []escrowd.Condition{buyer, seller},
		},
		"buyer signed": {
			ctx:       sigs.SetConditions(context.Background(), buyer),
			auth:      ChainAuth(sigs, relay),
			wantConds: []escrowd.Condition{buyer},
			allowed:   []escrowd.Condition{buyer},
			denied:    []escrowd.Condition{seller, stranger},
		},
		"buyer and seller through different authenticators": {
			ctx: relay.SetConditions(
				sigs.SetConditions(context.Background(), seller), buyer),
			auth:      ChainAuth(sigs, relay),
			wantConds: []escrowd.Condition{seller, buyer},
			allowed:   []escrowd.Condition{buyer, seller},
			denied:    []escrowd.Condition{stranger},
		},
		"static and context authenticators": {
			ctx:       sigs.SetConditions(context.Background(), stranger),
			auth:      ChainAuth(&weavetest.Auth{Signer: seller}, sigs),
			wantConds: []escrowd.Condition{seller, stranger},
			allowed:   []escrowd.Condition{seller, stranger},
			denied:    []escrowd.Condition{buyer},
		},
		"empty chain": {
			ctx:    sigs.SetConditions(context.Background(), buyer),
			auth:   ChainAuth(),
			denied: []escrowd.Condition{buyer},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantConds, tc.auth.GetConditions(tc.ctx))
			for _, c := range tc.allowed {
				if !tc.auth.HasAddress(tc.ctx, c.Address()) {
					t.Errorf("%s must be authenticated", c.Address())
				}
			}
			for _, c := range tc.denied {
				if tc.auth.HasAddress(tc.ctx, c.Address()) {
					t.Errorf("%s must not be authenticated", c.Address())
				}
			}
		})
	}
}
