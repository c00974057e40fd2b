// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - BackendFixture: Pre-configured mock backend for common scenarios
//   - MockBackend, MockTransport: Shared mocks for the platform backend and the management RPC channel
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithClusterName("test").
//	    WithLocation("nbg1").
//	    Build()
//
//	fixture := testing.NewBackendFixture()
//	backend := fixture.SuccessfulCreate("test")
package testing
