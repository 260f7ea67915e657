package wsconn

import "time"

const (
	defaultBaseDelay = time.Second
	defaultMaxDelay  = 30 * time.Second
)

// Backoff produces reconnect delays that double from Base up to Max.
// The zero value uses 1s and 30s.
type Backoff struct {
	Base    time.Duration
	Max     time.Duration
	current time.Duration
}

func (b *Backoff) limits() (time.Duration, time.Duration) {
	base, ceiling := b.Base, b.Max
	if base <= 0 {
		base = defaultBaseDelay
	}
	if ceiling < base {
		ceiling = max(defaultMaxDelay, base)
	}
	return base, ceiling
}

// Current returns the delay the next call to Next will return.
func (b *Backoff) Current() time.Duration {
	base, _ := b.limits()
	if b.current <= 0 {
		return base
	}
	return b.current
}

// Next returns the current delay and doubles it for the following attempt.
func (b *Backoff) Next() time.Duration {
	_, ceiling := b.limits()
	d := b.Current()
	next := d * 2
	if next > ceiling || next <= 0 {
		next = ceiling
	}
	b.current = next
	return d
}

// Reset returns the delay to Base.
func (b *Backoff) Reset() {
	b.current, _ = b.limits()
}
