package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *RelayConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Upstream.APIKey == "" {
		return errors.New("upstream.api_key is required")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Upstream.PageSize < 1 || c.Upstream.PageSize > 100 {
		return fmt.Errorf("upstream.page_size must be between 1 and 100, got %d", c.Upstream.PageSize)
	}

	if c.Collection.ID == "" {
		return errors.New("collection.id is required")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be positive")
	}
	if c.Poller.DedupCapacity < 1 {
		return errors.New("poller.dedup_capacity must be >= 1")
	}

	if c.Hub.SendBuffer < 1 {
		return errors.New("hub.send_buffer must be >= 1")
	}

	return nil
}
