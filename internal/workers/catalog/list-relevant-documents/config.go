// internal/workers/catalog/list-relevant-documents/config.go
package listrelevantdocuments

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
