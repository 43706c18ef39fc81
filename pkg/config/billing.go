package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BillingConfig describes the upstream billing API this service talks to.
type BillingConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the billing API configuration.
func (c *BillingConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Billing API ---\n")
	b.WriteString(fmt.Sprintf("  url: %s\n", c.URL))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *BillingConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("billing API url is not configured")
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return fmt.Errorf("invalid billing API url %q: %w", c.URL, err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid billing API timeout: %v", c.Timeout)
	}
	return nil
}
