package connection

import "time"

// ReconnectPolicy tracks consecutive reconnect attempts and computes the
// exponential backoff delay.
type ReconnectPolicy struct {
	Attempt     int
	MaxAttempts int
	BaseDelay   time.Duration
}

// NewReconnectPolicy returns a policy with no attempts made.
func NewReconnectPolicy(maxAttempts int, baseDelay time.Duration) ReconnectPolicy {
	return ReconnectPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
	}
}

// Delay returns the wait before attempt n (0-indexed): BaseDelay * 2^n.
func (p ReconnectPolicy) Delay(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	return p.BaseDelay << uint(n)
}

// NextDelay returns the wait before the next attempt.
func (p ReconnectPolicy) NextDelay() time.Duration {
	return p.Delay(p.Attempt)
}

// Exhausted reports whether the attempt budget is spent.
func (p ReconnectPolicy) Exhausted() bool {
	return p.Attempt >= p.MaxAttempts
}

// Reset clears the attempt counter after a successful open.
func (p *ReconnectPolicy) Reset() {
	p.Attempt = 0
}
