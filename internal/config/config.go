package config

import "time"

// RelayConfig is the root configuration for a relay instance.
type RelayConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Collection CollectionConfig `yaml:"collection"`
	Poller     PollerConfig     `yaml:"poller"`
	Hub        HubConfig        `yaml:"hub"`
}

// ServerConfig holds the WebSocket/HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// UpstreamConfig holds the event-data provider settings.
type UpstreamConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"` // x-api-key header value
	Timeout  time.Duration `yaml:"timeout"` // Per-request ceiling on the outbound fetch
	PageSize int           `yaml:"page_size"`
}

// CollectionConfig identifies the catalog being relayed and its initial filters.
type CollectionConfig struct {
	ID           string   `yaml:"id"`
	EventTypes   []string `yaml:"event_types"`
	Marketplaces []string `yaml:"marketplaces"`
}

// PollerConfig holds polling loop settings.
type PollerConfig struct {
	Interval      time.Duration `yaml:"interval"`
	DedupCapacity int           `yaml:"dedup_capacity"`
}

// HubConfig holds per-connection transport settings.
type HubConfig struct {
	SendBuffer   int           `yaml:"send_buffer"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PingInterval time.Duration `yaml:"ping_interval"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
}
