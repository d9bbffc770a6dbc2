// ABOUTME: Tests for MCP server shutdown handling.
// ABOUTME: Sends SIGTERM to the test process and checks the serve context ends.

//go:build unix

package main

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestShutdownContext(t *testing.T) {
	ctx, stop := shutdownContext(context.Background())
	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
	stop()

	ctx, stop = shutdownContext(context.Background())
	stop()
	select {
	case <-ctx.Done():
	default:
		t.Error("stop did not cancel the context")
	}

	parent, cancel := context.WithCancel(context.Background())
	ctx, stop = shutdownContext(parent)
	defer stop()
	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Error("context not cancelled with its parent")
	}
}
