package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(http.NotFoundHandler(), Options{RefreshSpec: "every night"}, zap.NewNop())
	assert.Error(t, err)
}

func TestRunRefresh(t *testing.T) {
	d, err := New(http.NotFoundHandler(), Options{}, zap.NewNop())
	require.NoError(t, err)

	var calls []string
	errBoom := errors.New("boom")
	d.RegisterRefresh("calendar", func(context.Context) error {
		calls = append(calls, "calendar")
		return errBoom
	})
	d.RegisterRefresh("templates", func(context.Context) error {
		calls = append(calls, "templates")
		return nil
	})

	err = d.RunRefresh(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "calendar")
	assert.Equal(t, []string{"calendar", "templates"}, calls)
	assert.False(t, d.LastRefresh().IsZero())
}

func TestRunRefresh_NoConcurrentRuns(t *testing.T) {
	d, err := New(http.NotFoundHandler(), Options{}, zap.NewNop())
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	d.RegisterRefresh("slow", func(context.Context) error {
		close(started)
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- d.RunRefresh(context.Background()) }()

	<-started
	assert.ErrorIs(t, d.RunRefresh(context.Background()), ErrRefreshRunning)

	close(release)
	assert.NoError(t, <-done)
}

func TestServe_StopShutsDownGracefully(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	var refreshed atomic.Int32
	d, err := New(handler, Options{RefreshSpec: "@every 1h", ShutdownTimeout: time.Second}, zap.NewNop())
	require.NoError(t, err)
	d.RegisterRefresh("noop", func(context.Context) error {
		refreshed.Add(1)
		return nil
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- d.Serve(listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	d.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
	assert.Zero(t, refreshed.Load())
}
