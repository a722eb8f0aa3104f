package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	portEnvVar         = "PORT"
	appNameVar         = "APP_NAME"
	backendURLVar      = "BACKEND_URL"
	publicHostVar      = "PUBLIC_HOST"
	policyFileVar      = "POLICY_FILE"
	defaultPort        = "3000"
	defaultBackendPort = 8080
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, defaultPort)
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "SOP Console")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBackendURL returns the REST backend base URL. BACKEND_URL wins; otherwise
// the URL is derived from the public host name with the backend's fixed port.
func (EnvVars) GetBackendURL() string {
	if u := os.Getenv(backendURLVar); u != "" {
		return u
	}
	return fmt.Sprintf("http://%s:%d", GetEnv(publicHostVar, "localhost"), defaultBackendPort)
}

// GetPolicyFile returns the path of the business error policy file. Empty means
// the built-in policy is used.
func (EnvVars) GetPolicyFile() string {
	return GetEnv(policyFileVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(envVar string, defaultValue int) int {
	valueStr := os.Getenv(envVar)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("var", envVar).Str("value", valueStr).Int("default", defaultValue).Msg("Invalid integer value, using default")
		return defaultValue
	}
	return value
}

func GetEnvAsDuration(envVar string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(envVar)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warn().Str("var", envVar).Str("value", valueStr).Dur("default", defaultValue).Msg("Invalid duration value, using default")
		return defaultValue
	}
	return value
}
