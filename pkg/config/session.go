package config

import (
	"fmt"
	"strings"
)

// SessionConfig describes the session cookie and where unauthenticated
// clients are sent to log in.
type SessionConfig struct {
	CookieName string `koanf:"cookieName"`
	LoginURL   string `koanf:"loginUrl"`
}

// String returns a string representation of the session configuration.
func (c *SessionConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Session ---\n")
	b.WriteString(fmt.Sprintf("  cookieName: %s\n", c.CookieName))
	b.WriteString(fmt.Sprintf("  loginUrl: %s\n", c.LoginURL))
	return b.String()
}

func (c *SessionConfig) Validate() error {
	if c.CookieName == "" {
		return fmt.Errorf("session cookie name is not configured")
	}
	if c.LoginURL == "" {
		return fmt.Errorf("session login url is not configured")
	}
	return nil
}
