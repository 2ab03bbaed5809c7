package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"
)

const interruptNotice = "interrupted, stopping"

// runInterruptible runs fn until it returns or the process receives SIGINT
// or SIGTERM, in which case fn's context is cancelled and the notice is
// printed to w.
func runInterruptible(ctx context.Context, w io.Writer, fn func(ctx context.Context) error) (bool, error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return interruptible(ctx, sigCh, w, fn)
}

func interruptible(parent context.Context, sigCh <-chan os.Signal, w io.Writer, fn func(ctx context.Context) error) (bool, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var interrupted atomic.Bool
	done := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-sigCh:
			interrupted.Store(true)
			fmt.Fprintln(w, interruptNotice)
			cancel()
		case <-done:
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		defer close(done)
		return fn(gctx)
	})

	err := g.Wait()
	return interrupted.Load(), err
}
