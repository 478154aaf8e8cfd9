// Package netx classifies transport-layer failures so callers can surface
// a connectivity-specific message instead of a raw error string.
package netx

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// FaultKind is a coarse classification of a network failure.
type FaultKind string

const (
	FaultTimeout         FaultKind = "timeout"
	FaultOffline         FaultKind = "offline"
	FaultHostUnreachable FaultKind = "host_unreachable"
	FaultOther           FaultKind = "other"
)

// Classify maps err to a FaultKind.
//
// Order matters: deadline/timeout conditions are checked before reachability
// because a timed-out dial also carries an unreachable address in some
// environments.
func Classify(err error) FaultKind {
	if err == nil {
		return FaultOther
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FaultTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FaultTimeout
	}

	// DNS failures mean we could not even resolve the host, which on a
	// mobile-style client almost always means no connectivity.
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return FaultOffline
	}

	if errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.ENETDOWN) {
		return FaultOffline
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) {
		return FaultHostUnreachable
	}

	return FaultOther
}
