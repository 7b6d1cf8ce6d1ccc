package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	err     error
}

func (b *blockingRunner) Run(context.Context) error {
	close(b.started)
	<-b.release
	return b.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartRender_DoneAfterRunReturns(t *testing.T) {
	r := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	done := startRender(ctx, r, discardLogger())
	<-r.started

	// Cancelling the context alone does not signal completion.
	cancel()
	select {
	case <-done:
		t.Fatal("done closed while Run was still in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(r.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "done not closed after Run returned")
	}
}

func TestStartRender_ClosesOnError(t *testing.T) {
	r := &blockingRunner{started: make(chan struct{}), release: make(chan struct{}), err: errors.New("boom")}
	close(r.release)

	done := startRender(context.Background(), r, discardLogger())

	select {
	case <-done:
	case <-time.After(time.Second):
		assert.Fail(t, "done not closed after failed Run")
	}
}
