package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/ibdtrack-backend/internal/platform/dbctx"
)

func TestInjectedTxRunnerCommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("expected callback to run")
	}
	if r.BeginCalls != 1 || r.CommitCalls != 1 || r.RollbackCalls != 0 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunnerFailures(t *testing.T) {
	bodyErr := errors.New("body failed")
	cases := []struct {
		name     string
		runner   *InjectedTxRunner
		body     error
		want     error
		ranBody  bool
		rollback int
	}{
		{"body error", &InjectedTxRunner{}, bodyErr, bodyErr, true, 1},
		{"commit error", &InjectedTxRunner{FailCommit: ErrInjectedCommit}, nil, ErrInjectedCommit, true, 1},
		{"begin error", &InjectedTxRunner{FailBegin: ErrInjectedCommit}, nil, ErrInjectedCommit, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			err := tc.runner.InTx(context.Background(), func(_ dbctx.Context) error {
				ran = true
				return tc.body
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err: want=%v got=%v", tc.want, err)
			}
			if ran != tc.ranBody {
				t.Fatalf("body ran: want=%v got=%v", tc.ranBody, ran)
			}
			if tc.runner.RollbackCalls != tc.rollback || tc.runner.CommitCalls != 0 {
				t.Fatalf("counters commit=%d rollback=%d", tc.runner.CommitCalls, tc.runner.RollbackCalls)
			}
		})
	}
}
