package mgmt

import (
	"context"
	"errors"
	"fmt"
)

// Transport carries a single management RPC call. Implementations own the
// wire encoding and the underlying authenticated, encrypted session; reply
// must be a pointer the transport decodes the response into, or nil when
// the caller discards the result.
type Transport interface {
	Call(ctx context.Context, method string, args []any, reply any) error
	Close() error
}

// Dialer opens a transport to one management address. The cluster tries
// the management address first and falls back to a node's instance
// address when that fails.
type Dialer func(ctx context.Context, address string) (Transport, error)

// Fault is a structured error reported by the management channel. Callers
// match on Code, never on message text, except for the enumerated legacy
// aliases in faults.go.
type Fault struct {
	Code    int
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("management fault %d: %s", f.Code, f.Message)
}

// AsFault extracts a Fault from an error chain.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
