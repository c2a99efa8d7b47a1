// Package retry retries operations with exponential backoff.
//
// [Do] runs an operation until it succeeds, returns a [Fatal] error, the
// attempts of its [Policy] are exhausted or the context is done. It wraps
// Hetzner Cloud calls that fail while a resource is locked.
package retry
