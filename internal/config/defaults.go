package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultPort            = 8080
	DefaultUpstreamBaseURL = "https://api.blockberry.one/sui/v1"
	DefaultUpstreamTimeout = 10 * time.Second
	DefaultPageSize        = 20
	DefaultPollInterval    = 15 * time.Second
	DefaultDedupCapacity   = 1000
	DefaultSendBuffer      = 64
	DefaultWriteTimeout    = 5 * time.Second
	DefaultPingInterval    = 15 * time.Second
	DefaultReadTimeout     = 60 * time.Second
)

func (c *RelayConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultUpstreamBaseURL
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if c.Upstream.PageSize == 0 {
		c.Upstream.PageSize = DefaultPageSize
	}

	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.DedupCapacity == 0 {
		c.Poller.DedupCapacity = DefaultDedupCapacity
	}

	if c.Hub.SendBuffer == 0 {
		c.Hub.SendBuffer = DefaultSendBuffer
	}
	if c.Hub.WriteTimeout == 0 {
		c.Hub.WriteTimeout = DefaultWriteTimeout
	}
	if c.Hub.PingInterval == 0 {
		c.Hub.PingInterval = DefaultPingInterval
	}
	if c.Hub.ReadTimeout == 0 {
		c.Hub.ReadTimeout = DefaultReadTimeout
	}
}
