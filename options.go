package qubitcrypt

import (
	"crypto/rand"
	"io"
)

// config holds settings shared by key generation, encapsulation and
// envelope building.
type config struct {
	rand io.Reader
}

// Option configures an operation that consumes randomness.
type Option func(*config)

// WithRand sets the source of randomness. The default is crypto/rand.Reader.
// A nil reader is ignored.
func WithRand(r io.Reader) Option {
	return func(c *config) {
		if r != nil {
			c.rand = r
		}
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{rand: rand.Reader}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
