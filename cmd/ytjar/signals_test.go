package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterruptible_SignalCancels(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	var out bytes.Buffer
	started := make(chan struct{})

	go func() {
		<-started
		sigCh <- syscall.SIGINT
	}()

	interrupted, err := interruptible(context.Background(), sigCh, &out, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	})

	require.NoError(t, err)
	assert.True(t, interrupted)
	assert.Equal(t, "interrupted, stopping\n", out.String())
}

func TestInterruptible_NormalCompletion(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	var out bytes.Buffer

	interrupted, err := interruptible(context.Background(), sigCh, &out, func(ctx context.Context) error {
		return ctx.Err()
	})

	require.NoError(t, err)
	assert.False(t, interrupted)
	assert.Empty(t, out.String())
}

func TestInterruptible_Error(t *testing.T) {
	boom := errors.New("boom")

	interrupted, err := interruptible(context.Background(), make(chan os.Signal), &bytes.Buffer{}, func(context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, interrupted)
}
