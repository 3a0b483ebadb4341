package config

import (
	"fmt"
	"strings"
	"time"
)

type CurrencyConfig struct {
	APIURL    string        `koanf:"apiUrl"`
	AccessKey string        `koanf:"accessKey"`
	Timeout   time.Duration `koanf:"timeout"`
}

// String returns a string representation of the currency configuration.
// The access key is never printed.
func (c *CurrencyConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Currency ---\n")
	b.WriteString(fmt.Sprintf("  apiUrl: %s\n", c.APIURL))
	b.WriteString(fmt.Sprintf("  accessKey: %s\n", maskKey(c.AccessKey)))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func maskKey(key string) string {
	if key == "" {
		return "<not configured>"
	}
	return "****"
}

func (c *CurrencyConfig) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("currency API URL is not configured")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("currency API access key is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid currency API timeout: %v", c.Timeout)
	}
	return nil
}
