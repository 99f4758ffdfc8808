package converter

import "fmt"

// Config holds converter configuration options.
type Config struct {
	// Strict makes conversion fail on invalid input, validation errors and
	// per-node converter failures instead of degrading best-effort.
	Strict bool `json:"strict,omitempty"`

	// DateFormat is the Go reference layout used to render date nodes.
	DateFormat string `json:"dateFormat,omitempty"`

	// BulletMarker is the list marker for bullet lists: -, * or +.
	BulletMarker rune `json:"bulletMarker,omitempty"`
}

func (c Config) applyDefaults() Config {
	if c.DateFormat == "" {
		c.DateFormat = "2006-01-02"
	}
	if c.BulletMarker == 0 {
		c.BulletMarker = '-'
	}
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.BulletMarker != '-' && c.BulletMarker != '*' && c.BulletMarker != '+' {
		return fmt.Errorf("invalid bulletMarker %q: must be one of -, *, +", c.BulletMarker)
	}
	if c.DateFormat == "" {
		return fmt.Errorf("dateFormat must not be empty")
	}
	return nil
}
