// Package retry provides bounded polling and backoff retry for transient
// failures.
//
// [Do] polls an operation at a fixed interval until it succeeds, with an
// optional wall-clock cap; it is the primitive behind every wait on remote
// cluster state. [Hold] extends it to conditions that must be observed
// continuously for a minimum duration. [WithExponentialBackoff] retries
// with growing delays and is used for cloud API calls that fail
// transiently. Errors wrapped with [Fatal] abort any of them immediately.
package retry
