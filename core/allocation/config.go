package allocation

import (
	"fmt"
	"time"
)

const (
	// DefaultMinUtilization is the fraction of capacity a facility with
	// demand must receive.
	DefaultMinUtilization = 0.5
	// DefaultTolerance bounds the constraint violation accepted from the
	// solver and the noise snapped away before truncating to counts.
	DefaultTolerance = 1e-6
)

// Config defines allocation-related settings. MinUtilization is a pointer so
// an explicit 0 disables the utilization floors instead of selecting the
// default.
type Config struct {
	MinUtilization       *float64 `json:"min_utilization"`
	SolverTimeoutSeconds float64  `json:"solver_timeout_seconds"`
	Tolerance            float64  `json:"tolerance"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.MinUtilization == nil {
		v := DefaultMinUtilization
		c.MinUtilization = &v
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
}

// Validate checks the ranges of the settings.
func (c Config) Validate() error {
	if u := c.MinUtil(); u < 0 || u > 1 {
		return fmt.Errorf("min_utilization must be in [0,1], got %v", u)
	}
	if c.SolverTimeoutSeconds < 0 {
		return fmt.Errorf("solver_timeout_seconds must be non-negative")
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative")
	}
	return nil
}

// SolverTimeout converts SolverTimeoutSeconds to a duration. Zero means no
// deadline.
func (c Config) SolverTimeout() time.Duration {
	return time.Duration(c.SolverTimeoutSeconds * float64(time.Second))
}

// MinUtil returns the utilization floor fraction, DefaultMinUtilization when
// unset.
func (c Config) MinUtil() float64 {
	if c.MinUtilization == nil {
		return DefaultMinUtilization
	}
	return *c.MinUtilization
}
