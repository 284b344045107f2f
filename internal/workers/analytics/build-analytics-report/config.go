// internal/workers/analytics/build-analytics-report/config.go
package buildanalyticsreport

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
