// internal/workers/applications/track-application/config.go
package trackapplication

import "time"

type Config struct {
	Timeout          time.Duration
	AnalyticsTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          10 * time.Second,
		AnalyticsTimeout: 2 * time.Second,
	}
}
