package pipeline

import "sync/atomic"

// SuppressOnce is a one-shot token for callers that watch the files they
// rewrite. Arming it before a self-inflicted write lets the watcher consume
// exactly one change notification instead of re-converting its own output.
type SuppressOnce struct {
	armed atomic.Bool
}

// Arm primes the token. Arming an already-armed token is a no-op.
func (s *SuppressOnce) Arm() {
	s.armed.Store(true)
}

// Consume reports whether the token was armed, disarming it. Only one
// caller observes true per Arm, even under concurrent consumption.
func (s *SuppressOnce) Consume() bool {
	return s.armed.Swap(false)
}
