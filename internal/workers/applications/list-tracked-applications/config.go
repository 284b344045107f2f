// internal/workers/applications/list-tracked-applications/config.go
package listtrackedapplications

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
