// Package xmlrpc dials the XML-RPC management service an appliance
// exposes and adapts it to the mgmt.Transport contract.
package xmlrpc

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
)

// Options configures dialed transports.
type Options struct {
	// VerifyTLS turns certificate verification on. Appliances present
	// self-signed certificates, so verification is off by default.
	VerifyTLS bool

	// Timeout bounds one call round trip. Zero leaves the bound to the
	// caller's context.
	Timeout time.Duration
}

// NewDialer returns a dialer for appliance management addresses. Each
// transport keeps its own cookie jar, so the session established by
// system.login stays pinned to the transport that logged in.
func NewDialer(opts Options) mgmt.Dialer {
	return func(_ context.Context, address string) (mgmt.Transport, error) {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		return &transport{
			endpoint: fmt.Sprintf("https://%s/cgi-bin/rpc2.py", address),
			client: &http.Client{
				Jar:     jar,
				Timeout: opts.Timeout,
				Transport: &http.Transport{
					Proxy:           http.ProxyFromEnvironment,
					TLSClientConfig: &tls.Config{InsecureSkipVerify: !opts.VerifyTLS},
				},
			},
		}, nil
	}
}

type transport struct {
	endpoint string
	client   *http.Client
}

// Call implements mgmt.Transport. Faults reported by the service are
// returned untouched; transport and envelope failures carry the method
// name for context.
func (t *transport) Call(ctx context.Context, method string, args []any, reply any) error {
	payload, err := encodeCall(method, args)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", method, resp.StatusCode)
	}

	result, err := parseResponse(body)
	if err != nil {
		if _, ok := mgmt.AsFault(err); ok {
			return err
		}
		return fmt.Errorf("%s: %w", method, err)
	}
	if reply == nil {
		return nil
	}
	if err := decodeReply(result, reply); err != nil {
		return fmt.Errorf("%s: decode reply: %w", method, err)
	}
	return nil
}

// Close implements mgmt.Transport.
func (t *transport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
