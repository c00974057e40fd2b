// Package mgmttest provides an in-memory management transport for
// exercising orchestration flows without a wire protocol.
package mgmttest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
)

// Handler serves one scripted call. The reply argument is the pointer the
// caller passed to Transport.Call, or nil when the result is discarded.
type Handler func(args []any, reply any) error

// Call records one invocation observed by the fake.
type Call struct {
	Method string
	Args   []any
}

// Fake is a Transport scripted per method name. Handlers registered for a
// method are consumed in order and the last one stays sticky, so a poll
// can walk through a scripted sequence and then repeat the terminal reply.
// Calling a method with no script fails loudly.
type Fake struct {
	mu       sync.Mutex
	handlers map[string][]Handler
	calls    []Call
	dialErrs []error
	dialed   []string
	closed   int
}

// New returns an empty fake; script it with the With* builders.
func New() *Fake {
	return &Fake{handlers: make(map[string][]Handler)}
}

// With registers a handler for method.
func (f *Fake) With(method string, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = append(f.handlers[method], h)
	return f
}

// WithReply registers a handler that copies value into the reply.
func (f *Fake) WithReply(method string, value any) *Fake {
	return f.With(method, func(_ []any, reply any) error {
		SetReply(reply, value)
		return nil
	})
}

// WithOK registers a handler that succeeds without touching the reply.
func (f *Fake) WithOK(method string) *Fake {
	return f.With(method, func(_ []any, _ any) error { return nil })
}

// WithError registers a handler that fails with err.
func (f *Fake) WithError(method string, err error) *Fake {
	return f.With(method, func(_ []any, _ any) error { return err })
}

// WithFault registers a handler that fails with a structured fault.
func (f *Fake) WithFault(method string, code int, message string) *Fake {
	return f.WithError(method, &mgmt.Fault{Code: code, Message: message})
}

// Call implements mgmt.Transport.
func (f *Fake) Call(_ context.Context, method string, args []any, reply any) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Args: args})
	queue := f.handlers[method]
	if len(queue) == 0 {
		f.mu.Unlock()
		return fmt.Errorf("mgmttest: unscripted call %s", method)
	}
	h := queue[0]
	if len(queue) > 1 {
		f.handlers[method] = queue[1:]
	}
	f.mu.Unlock()
	return h(args, reply)
}

// Close implements mgmt.Transport.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// Closed reports how many times the transport was closed.
func (f *Fake) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Calls returns the recorded invocations of method, or every invocation
// when method is empty.
func (f *Fake) Calls(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if method == "" {
		return append([]Call(nil), f.calls...)
	}
	var out []Call
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns how many times method was invoked.
func (f *Fake) CallCount(method string) int {
	return len(f.Calls(method))
}

// LastArgs returns the arguments of the most recent call to method, nil
// when it was never called.
func (f *Fake) LastArgs(method string) []any {
	calls := f.Calls(method)
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1].Args
}

// WithDialErrors queues errors the dialer returns before it starts
// handing out the fake.
func (f *Fake) WithDialErrors(errs ...error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dialErrs = append(f.dialErrs, errs...)
	return f
}

// Dialer returns a dialer that records every address and hands out the
// fake, consuming any scripted dial errors first.
func (f *Fake) Dialer() mgmt.Dialer {
	return func(_ context.Context, address string) (mgmt.Transport, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.dialed = append(f.dialed, address)
		if len(f.dialErrs) > 0 {
			err := f.dialErrs[0]
			f.dialErrs = f.dialErrs[1:]
			return nil, err
		}
		return f, nil
	}
}

// Dialed returns the addresses dialed so far.
func (f *Fake) Dialed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.dialed...)
}

// SetReply copies value into the reply pointer a transport call carries.
// A nil reply is ignored. Mismatched types panic; that is a scripting bug
// in the test, not a runtime condition.
func SetReply(reply, value any) {
	if reply == nil {
		return
	}
	rv := reflect.ValueOf(reply).Elem()
	vv := reflect.ValueOf(value)
	if !vv.Type().AssignableTo(rv.Type()) {
		panic(fmt.Sprintf("mgmttest: cannot assign %T into reply %T", value, reply))
	}
	rv.Set(vv)
}
