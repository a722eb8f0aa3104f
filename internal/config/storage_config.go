package config

import (
	"os"
	"path/filepath"
	"time"
)

type Storage struct{}

var _ StorageConfig = Storage{}

// GetRedisURL returns a redis:// URL for the console credential store. Empty
// keeps credentials in process memory.
func (Storage) GetRedisURL() string {
	return GetEnv("REDIS_URL", "")
}

func (Storage) GetSessionTTL() time.Duration {
	return GetEnvAsDuration("SESSION_TTL", 7*24*time.Hour)
}

func (Storage) GetCredentialsFile() string {
	if path := os.Getenv("CREDENTIALS_FILE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".sop-console", "credentials")
	}
	return filepath.Join(home, ".sop-console", "credentials")
}

func (Storage) GetCredentialsPassphrase() string {
	return GetEnv("CONSOLE_SECRET", "")
}
