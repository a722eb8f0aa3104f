package apiclient

import (
	"strings"
	"time"

	"github.com/jrsteele09/sop-console/internal/config"
	"github.com/jrsteele09/sop-console/token"
)

const (
	DefaultTimeout     = 100 * time.Second
	DefaultRefreshPath = "/api/auth/refresh"
	DefaultLoginPath   = "/api/auth/dangnhap"
	DefaultMePath      = "/api/auth/me"
)

// Config locates the backend and its auth endpoints.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RefreshWindow time.Duration
	RefreshPath   string
	LoginPath     string
	MePath        string
}

// DefaultConfig targets baseURL with the standard endpoints and limits.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Timeout:       DefaultTimeout,
		RefreshWindow: token.RefreshWindow,
		RefreshPath:   DefaultRefreshPath,
		LoginPath:     DefaultLoginPath,
		MePath:        DefaultMePath,
	}
}

// ConfigFrom builds a Config from the console configuration.
func ConfigFrom(env config.EnvConfig, session config.SessionConfig) Config {
	return Config{
		BaseURL:       strings.TrimRight(env.GetBackendURL(), "/"),
		Timeout:       session.GetRequestTimeout(),
		RefreshWindow: session.GetRefreshWindow(),
		RefreshPath:   session.GetRefreshPath(),
		LoginPath:     session.GetLoginPath(),
		MePath:        session.GetMePath(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig(c.BaseURL)
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.RefreshWindow <= 0 {
		c.RefreshWindow = def.RefreshWindow
	}
	if c.RefreshPath == "" {
		c.RefreshPath = def.RefreshPath
	}
	if c.LoginPath == "" {
		c.LoginPath = def.LoginPath
	}
	if c.MePath == "" {
		c.MePath = def.MePath
	}
	c.BaseURL = def.BaseURL
	return c
}
