package metrics

import (
	"context"
	"time"

	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
)

// Transport decorates a management transport, recording per-method call
// counts and latencies.
type Transport struct {
	next mgmt.Transport
}

// InstrumentDialer wraps every transport the dialer opens.
func InstrumentDialer(next mgmt.Dialer) mgmt.Dialer {
	return func(ctx context.Context, address string) (mgmt.Transport, error) {
		t, err := next(ctx, address)
		if err != nil {
			return nil, err
		}
		return &Transport{next: t}, nil
	}
}

var _ mgmt.Transport = (*Transport)(nil)

// Call implements mgmt.Transport.
func (t *Transport) Call(ctx context.Context, method string, args []any, reply any) error {
	start := time.Now()
	err := t.next.Call(ctx, method, args, reply)
	result := "success"
	if err != nil {
		result = "error"
	}
	RecordRPC(method, result, time.Since(start).Seconds())
	return err
}

// Close implements mgmt.Transport.
func (t *Transport) Close() error {
	return t.next.Close()
}
