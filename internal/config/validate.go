package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Scheduler.validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	if err := c.Pipeline.validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	return nil
}

func (s *SchedulerConfig) validate() error {
	if len(s.CronSecret) < 16 {
		return fmt.Errorf("cron_secret must be at least 16 characters (got %d)", len(s.CronSecret))
	}
	if s.GridCellCapacity <= 0 {
		return fmt.Errorf("grid_cell_capacity must be > 0 (got %d)", s.GridCellCapacity)
	}
	if s.InterClientDelay < 0 {
		return fmt.Errorf("inter_client_delay must be >= 0 (got %v)", s.InterClientDelay)
	}
	if s.DispatchTimeout <= 0 {
		return fmt.Errorf("dispatch_timeout must be > 0 (got %v)", s.DispatchTimeout)
	}
	return nil
}

func (p *PipelineConfig) validate() error {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http(s), got %q", p.BaseURL)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", p.Timeout)
	}
	return nil
}
