// internal/workers/eligibility/find-eligible-schemes/config.go
package findeligibleschemes

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
