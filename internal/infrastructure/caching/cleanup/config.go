package cleanup

import (
	"time"

	"github.com/locatrova/locatrova-go/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	SweepInterval time.Duration
	Retention     time.Duration
}

// NewConfig creates a new cleanup configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		SweepInterval: config.DedupSweepInterval,
		Retention:     config.DedupRetention,
	}
}
