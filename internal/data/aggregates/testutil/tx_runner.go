package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/ibdtrack-backend/internal/data/aggregates"
	"github.com/yungbote/ibdtrack-backend/internal/platform/dbctx"
)

// InjectedTxRunner wraps a real runner and injects failures at the transaction
// boundary. A FailCommit error is raised after the body succeeds, from inside
// the transaction, so the inner runner rolls back for real.
type InjectedTxRunner struct {
	Inner aggregates.TxRunner

	mu         sync.Mutex
	FailBegin  error
	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failCommit := r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return failCommit
	}

	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	if err != nil {
		r.RollbackCalls++
	} else {
		r.CommitCalls++
	}
	r.mu.Unlock()
	return err
}

// ErrInjectedCommit is a convenience value for FailCommit.
var ErrInjectedCommit = errors.New("injected commit failure")
