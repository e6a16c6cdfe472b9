// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/matchcast/internal/log"
)

func reserveListenAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func waitForListen(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond); err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return errors.New("listen timeout")
}

func testServerConfig(addr string) ServerConfig {
	cfg := DefaultServerConfig(addr)
	cfg.ReadTimeout = time.Second
	cfg.WriteTimeout = time.Second
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func testDeps(h http.Handler) Deps {
	return Deps{Logger: log.WithComponent("test"), APIHandler: h}
}

// startManager runs mgr.Start in the background and returns its result channel.
func startManager(ctx context.Context, mgr Manager) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- mgr.Start(ctx) }()
	return ch
}

func awaitStop(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return")
		return nil
	}
}

func TestNewManager_Validation(t *testing.T) {
	tests := []struct {
		name string
		deps Deps
		want error
	}{
		{"valid", testDeps(http.NotFoundHandler()), nil},
		{"disabled logger", Deps{Logger: zerolog.Nop(), APIHandler: http.NotFoundHandler()}, ErrMissingLogger},
		{"missing handler", Deps{Logger: log.WithComponent("test")}, ErrMissingAPIHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, err := NewManager(testServerConfig("127.0.0.1:0"), tt.deps)
			if tt.want == nil {
				require.NoError(t, err)
				assert.NotNil(t, mgr)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestManager_ServesUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	addr := reserveListenAddr(t)
	mgr, err := NewManager(testServerConfig(addr), testDeps(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := startManager(ctx, mgr)
	require.NoError(t, waitForListen(addr, 2*time.Second))

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + addr)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "OK", string(body))

	cancel()
	assert.NoError(t, awaitStop(t, done))
}

func TestManager_ServesMetricsListener(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	deps := testDeps(http.NotFoundHandler())
	deps.MetricsAddr = reserveListenAddr(t)
	deps.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# HELP test_metric\n"))
	})
	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), deps)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := startManager(ctx, mgr)
	require.NoError(t, waitForListen(deps.MetricsAddr, 2*time.Second))

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + deps.MetricsAddr + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(body), "test_metric")

	cancel()
	assert.NoError(t, awaitStop(t, done))
}

func TestManager_ShutdownTimesOutOnStuckRequest(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	started := make(chan struct{})
	release := make(chan struct{})
	addr := reserveListenAddr(t)
	cfg := testServerConfig(addr)
	cfg.ShutdownTimeout = 100 * time.Millisecond

	mgr, err := NewManager(cfg, testDeps(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := startManager(ctx, mgr)
	require.NoError(t, waitForListen(addr, 2*time.Second))

	reqDone := make(chan struct{})
	go func() {
		defer close(reqDone)
		client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
		if resp, err := client.Get("http://" + addr); err == nil {
			_ = resp.Body.Close()
		}
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("request never reached the handler")
	}

	cancel()
	err = awaitStop(t, done)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	select {
	case <-reqDone:
	case <-time.After(2 * time.Second):
		t.Fatal("stuck request did not finish")
	}
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), testDeps(http.NotFoundHandler()))
	require.NoError(t, err)
	assert.ErrorIs(t, mgr.Shutdown(context.Background()), ErrManagerNotStarted)
}

func TestManager_BindFailureIsReturned(t *testing.T) {
	busy := httptest.NewServer(http.NotFoundHandler())
	defer busy.Close()

	mgr, err := NewManager(testServerConfig(busy.Listener.Addr().String()), testDeps(http.NotFoundHandler()))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err = mgr.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api server")
}

func TestManager_ShutdownHooksRunLIFO(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	mgr, err := NewManager(testServerConfig("127.0.0.1:0"), testDeps(http.NotFoundHandler()))
	require.NoError(t, err)

	var order []string
	for _, name := range []string{"telemetry", "store", "fixture-sync"} {
		mgr.RegisterShutdownHook(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	mgr.RegisterShutdownHook("failing", func(context.Context) error { return errors.New("boom") })

	ctx, cancel := context.WithCancel(context.Background())
	done := startManager(ctx, mgr)
	time.Sleep(50 * time.Millisecond)
	cancel()

	err = awaitStop(t, done)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook failing")
	assert.Equal(t, []string{"fixture-sync", "store", "telemetry"}, order)
}
