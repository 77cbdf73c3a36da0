package main

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackgroundStopWaitsForReturn(t *testing.T) {
	var finished atomic.Bool
	stop := background(context.Background(), slog.Default(), "worker", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
		return ctx.Err()
	})

	assert.False(t, finished.Load())
	stop()
	assert.True(t, finished.Load())
}

func TestBackgroundStopAfterEarlyExit(t *testing.T) {
	stop := background(context.Background(), slog.Default(), "worker", func(context.Context) error {
		return errors.New("broker unreachable")
	})
	assert.NotPanics(t, stop)
}
