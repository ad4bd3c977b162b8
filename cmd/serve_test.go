package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getFreePort returns a free TCP port on localhost.
func getFreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close() //nolint:errcheck
	return port
}

func TestServeCommand_InvalidPort(t *testing.T) {
	c := withConfig(t)
	c.Server.Port = 0
	servePort = 0

	err := serveCmd.RunE(serveCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestServeCommand_BadSchema(t *testing.T) {
	withConfig(t)
	serveSchema = "/nonexistent/schema.yaml"
	t.Cleanup(func() { serveSchema = "" })

	err := serveCmd.RunE(serveCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serve: load schema")
}

func TestServeCommand_Lifecycle(t *testing.T) {
	withConfig(t)
	port := getFreePort(t)
	servePort = port
	t.Cleanup(func() { servePort = 0 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveCmd.SetContext(ctx)
	t.Cleanup(func() { serveCmd.SetContext(context.Background()) })

	errCh := make(chan error, 1)
	go func() {
		errCh <- serveCmd.RunE(serveCmd, nil)
	}()

	// Wait for server to be ready.
	var ready bool
	for i := 0; i < 50; i++ {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err == nil {
			resp.Body.Close() //nolint:errcheck
			ready = resp.StatusCode == http.StatusOK
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	require.True(t, ready, "server did not become ready")

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
