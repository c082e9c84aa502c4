package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-solver-service/internal/config"
)

func TestServeReturnsExitCodeOnBadConfig(t *testing.T) {
	t.Setenv("CACHE_SIZE", "zero")

	assert.Equal(t, 1, serve())
}

func TestRunStopsWhenContextIsCancelled(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "127.0.0.1:0")
	t.Setenv("ADMIN_ADDR", "127.0.0.1:0")
	t.Setenv("JOURNAL_DRIVER", "sqlite")
	t.Setenv("JOURNAL_DSN", ":memory:")

	cfg, err := config.Load()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
