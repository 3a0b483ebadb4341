package config

import (
	"fmt"
	"strings"
	"time"
)

type CacheConfig struct {
	TTL         time.Duration `koanf:"ttl"`
	SweepPeriod time.Duration `koanf:"sweepPeriod"`
}

// String returns a string representation of the cache configuration.
func (c *CacheConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Cache ---\n")
	b.WriteString(fmt.Sprintf("  ttl: %s\n", c.TTL))
	b.WriteString(fmt.Sprintf("  sweepPeriod: %s\n", c.SweepPeriod))
	return b.String()
}

func (c *CacheConfig) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("invalid cache TTL: %v", c.TTL)
	}
	if c.SweepPeriod <= 0 {
		return fmt.Errorf("invalid cache sweep period: %v", c.SweepPeriod)
	}
	return nil
}
