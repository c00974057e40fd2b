package netutil

import (
	"context"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"
)

// freePort asks the kernel for an unused TCP port. When keep is false the
// listener is closed so the port is free but nothing answers on it yet.
func freePort(t *testing.T, keep bool) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("split host/port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port %q: %v", portStr, err)
	}
	if keep {
		t.Cleanup(func() { _ = ln.Close() })
	} else {
		_ = ln.Close()
	}
	return port
}

func TestWaitForPort_AlreadyOpen(t *testing.T) {
	port := freePort(t, true)

	if err := WaitForPort(context.Background(), "127.0.0.1", port, 2*time.Second); err != nil {
		t.Errorf("WaitForPort on an open port: %v", err)
	}
}

func TestWaitForPort_TimesOutOnClosedPort(t *testing.T) {
	// The freshly released port refuses connections, which must be
	// retried until the deadline rather than surfaced immediately.
	port := freePort(t, false)

	timeout := 200 * time.Millisecond
	start := time.Now()
	err := WaitForPort(context.Background(), "127.0.0.1", port, timeout)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected timeout error for a closed port")
	}
	if elapsed < timeout {
		t.Errorf("returned before the deadline: %v < %v", elapsed, timeout)
	}
}

func TestWaitForPort_LateListener(t *testing.T) {
	port := freePort(t, false)
	address := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))

	// The service comes up well inside the wait window, mirroring a node
	// whose API answers some seconds after power-on.
	go func() {
		time.Sleep(300 * time.Millisecond)
		ln, err := net.Listen("tcp", address)
		if err != nil {
			return
		}
		time.Sleep(2 * time.Second)
		_ = ln.Close()
	}()

	if err := WaitForPort(context.Background(), "127.0.0.1", port, 5*time.Second); err != nil {
		t.Errorf("WaitForPort with late listener on port %d: %v", port, err)
	}
}

func TestWaitForPort_CancelPropagates(t *testing.T) {
	port := freePort(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	err := WaitForPort(ctx, "127.0.0.1", port, 30*time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}
