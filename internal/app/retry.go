package app

import "time"

// RetryPolicy formalizes the protocol's retry loops: a fixed delay between
// attempts and an optional attempt ceiling with an explicit gave-up outcome.
// MaxAttempts 0 means retry forever, which matches the protocol's original
// behavior of contesting a permanently full lobby indefinitely.
type RetryPolicy struct {
	Delay       time.Duration
	MaxAttempts int

	attempts int
}

// Next records one more attempt. ok is false when the ceiling is exhausted.
func (p *RetryPolicy) Next() (delay time.Duration, ok bool) {
	p.attempts++
	if p.MaxAttempts > 0 && p.attempts > p.MaxAttempts {
		return 0, false
	}
	return p.Delay, true
}

// Reset clears the attempt count. Called whenever the peer lands in a
// settled state (leader or in-lobby), so a later epoch starts fresh.
func (p *RetryPolicy) Reset() {
	p.attempts = 0
}

// Attempts returns how many attempts have been consumed since the last reset.
func (p *RetryPolicy) Attempts() int { return p.attempts }
