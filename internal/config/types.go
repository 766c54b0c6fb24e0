package config

import (
	"fmt"
	"strings"
	"time"
)

const redacted = "[REDACTED]"

// Duration is a config duration written as a Go duration string ("30s",
// "1m30s") in YAML and in environment overrides such as REMOTE_TIMEOUT.
type Duration time.Duration

// UnmarshalText parses a non-negative duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", s)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText writes the duration back in the form UnmarshalText reads.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Duration returns the value as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Secret is the project service bearer token. Printing or encoding it yields
// a placeholder; only Value exposes the token, for the Authorization header.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string {
	return "config.Secret(" + redacted + ")"
}

// Value returns the raw token.
func (s Secret) Value() string {
	return string(s)
}

// IsSet reports whether a token is configured.
func (s Secret) IsSet() bool {
	return s != ""
}

// MarshalText redacts the token, so JSON and YAML dumps of a Config never
// carry it.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText stores the token without surrounding whitespace, which
// tokens pasted from files or env often carry.
func (s *Secret) UnmarshalText(text []byte) error {
	*s = Secret(strings.TrimSpace(string(text)))
	return nil
}
