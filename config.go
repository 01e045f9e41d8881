package keymint

import (
	"errors"
	"time"

	"github.com/keymint/keymint/internal"
)

// Config defines a public type used by keymint APIs.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	Token   TokenConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// TokenConfig carries the token lifetime policy. Both lifetimes are fixed at
// construction; a record's expiry is set once at creation and never mutated.
type TokenConfig struct {
	// AccessTTL is the access-token lifetime. Default one hour.
	AccessTTL time.Duration
	// RefreshTTL is the refresh-token lifetime. Default 24 hours.
	RefreshTTL time.Duration
	// SecretLength is the number of random bytes behind each plaintext.
	// Default 32.
	SecretLength int
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process metric collection.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:    time.Hour,
			RefreshTTL:   24 * time.Hour,
			SecretLength: internal.DefaultSecretSize,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; the clone exists so later slice or
	// map fields cannot alias caller state.
	return cfg
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Token.AccessTTL <= 0 {
		return errors.New("Token.AccessTTL must be positive")
	}
	if c.Token.RefreshTTL <= 0 {
		return errors.New("Token.RefreshTTL must be positive")
	}
	if c.Token.RefreshTTL < c.Token.AccessTTL {
		return errors.New("Token.RefreshTTL must not be shorter than Token.AccessTTL")
	}
	if c.Token.SecretLength < internal.MinSecretSize {
		return errors.New("Token.SecretLength below minimum secure width")
	}
	return nil
}
