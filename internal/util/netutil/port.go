// Package netutil provides IPv4 range arithmetic and small network helpers
// for address planning and reachability checks.
package netutil

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// ManagementPort is the TCP port the cluster management API listens on.
	ManagementPort = 443
	// ManagementWaitTimeout is the default timeout for waiting for the
	// management API to become reachable after power transitions.
	ManagementWaitTimeout = 10 * time.Minute

	probeInterval = time.Second
	dialTimeout   = 2 * time.Second
)

// WaitForPort polls a TCP port on the target IP once per second until a
// connection succeeds or the timeout elapses. Refused connections are
// expected while a node boots and are never surfaced individually.
func WaitForPort(ctx context.Context, ip string, port int, timeout time.Duration) error {
	address := net.JoinHostPort(ip, strconv.Itoa(port))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		if probe(address) {
			return nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("timeout waiting for %s", address)
			}
			return ctx.Err()
		case <-time.After(probeInterval):
		}
	}
}

func probe(address string) bool {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
