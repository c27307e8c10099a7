package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET not set", ErrInvalidConfig)
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: unknown DB_DRIVER %q", ErrInvalidConfig, c.DB.Driver)
	}
	switch c.Provider.Name {
	case "usda", "edamam":
	default:
		return fmt.Errorf("%w: unknown FOOD_PROVIDER %q", ErrInvalidConfig, c.Provider.Name)
	}
	if c.Provider.Concurrency < 1 {
		return fmt.Errorf("%w: PROVIDER_CONCURRENCY must be >= 1", ErrInvalidConfig)
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("%w: PROVIDER_TIMEOUT must be positive", ErrInvalidConfig)
	}
	r := c.Recommend
	if r.LookbackDays < 1 || r.MaxQueries < 1 || r.PageSize < 1 || r.ResultLimit < 1 {
		return fmt.Errorf("%w: recommend settings must be positive", ErrInvalidConfig)
	}
	return nil
}
