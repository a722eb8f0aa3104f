package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBackendURL() string
	GetPolicyFile() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type SessionConfig interface {
	GetIdleTimeout() time.Duration
	GetRefreshWindow() time.Duration
	GetRequestTimeout() time.Duration
	GetRefreshPath() string
	GetLoginPath() string
	GetMePath() string
}

type StorageConfig interface {
	GetRedisURL() string
	GetSessionTTL() time.Duration
	GetCredentialsFile() string
	GetCredentialsPassphrase() string
}

type mainConfig struct {
	EnvVars
	Cors
	Session
	Storage
}

// New loads an optional .env file from the working directory and returns the
// environment backed configuration.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
