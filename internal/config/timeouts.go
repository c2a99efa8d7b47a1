package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the configurable timeouts of an execution.
type Timeouts struct {
	Helm              time.Duration // Helm install or upgrade
	Delete            time.Duration // Uninstall and pod termination
	Pause             time.Duration // Scale down and pod termination
	ReportFrequency   time.Duration // Progress reports of long deployments
	RetryMaxAttempts  int           // Attempts for locked cloud resources
	RetryInitialDelay time.Duration // First delay between attempts
}

// LoadTimeouts loads the timeouts from environment variables.
// Unset or invalid variables keep their default.
//
// Environment Variables:
//   - ENGINE_TIMEOUT_HELM (default: 10m)
//   - ENGINE_TIMEOUT_DELETE (default: 10m)
//   - ENGINE_TIMEOUT_PAUSE (default: 5m)
//   - ENGINE_REPORT_FREQUENCY (default: 10s)
//   - ENGINE_RETRY_MAX_ATTEMPTS (default: 5)
//   - ENGINE_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Helm:              parseDuration("ENGINE_TIMEOUT_HELM", 10*time.Minute),
		Delete:            parseDuration("ENGINE_TIMEOUT_DELETE", 10*time.Minute),
		Pause:             parseDuration("ENGINE_TIMEOUT_PAUSE", 5*time.Minute),
		ReportFrequency:   parseDuration("ENGINE_REPORT_FREQUENCY", 10*time.Second),
		RetryMaxAttempts:  parseInt("ENGINE_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("ENGINE_RETRY_INITIAL_DELAY", time.Second),
	}
}

// DeployFromFile reports whether DEPLOY_FROM_FILE_KIND is set, which
// disables the workspace archive upload.
func DeployFromFile() bool {
	_, ok := os.LookupEnv("DEPLOY_FROM_FILE_KIND")
	return ok
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}
