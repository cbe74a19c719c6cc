package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	VLAN     VLANConfig
	DNS      DNSConfig
	Cluster  ClusterConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8000"`
}

// DatabaseConfig holds the manual cluster store configuration. An empty or
// "memory" driver selects the in-memory store.
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"data/clusters.db"`
}

// VLANConfig holds VLAN Manager API configuration.
type VLANConfig struct {
	URL          string        `env:"VLAN_MANAGER_URL" envDefault:"http://0.0.0.0:9000"`
	SyncInterval time.Duration `env:"VLAN_SYNC_INTERVAL" envDefault:"300s"`
	HTTPTimeout  time.Duration `env:"VLAN_HTTP_TIMEOUT" envDefault:"10s"`
	InsecureTLS  bool          `env:"VLAN_INSECURE_TLS" envDefault:"false"`
}

// DNSConfig holds LoadBalancer IP resolution configuration. ResolutionPath
// is a hostname template with {cluster} and {domain} placeholders.
type DNSConfig struct {
	Server         string        `env:"DNS_SERVER" envDefault:"8.8.8.8"`
	Timeout        time.Duration `env:"DNS_TIMEOUT" envDefault:"5s"`
	ResolutionPath string        `env:"DNS_RESOLUTION_PATH" envDefault:"api.{cluster}.{domain}"`
	DefaultDomain  string        `env:"DEFAULT_DOMAIN" envDefault:"example.com"`
}

// ClusterConfig holds cluster naming configuration.
type ClusterConfig struct {
	Prefix string `env:"CLUSTER_PREFIX" envDefault:"ocp4-"`
}

// CacheConfig holds the sync cache file configuration.
type CacheConfig struct {
	File string `env:"CACHE_FILE" envDefault:"data/vlan_cache.json"`
}

// AuthConfig holds admin HTTP Basic auth credentials.
type AuthConfig struct {
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := env.Parse(&cfg.VLAN); err != nil {
		return nil, fmt.Errorf("parsing vlan config: %w", err)
	}
	if err := env.Parse(&cfg.DNS); err != nil {
		return nil, fmt.Errorf("parsing dns config: %w", err)
	}
	if err := env.Parse(&cfg.Cluster); err != nil {
		return nil, fmt.Errorf("parsing cluster config: %w", err)
	}
	if err := env.Parse(&cfg.Cache); err != nil {
		return nil, fmt.Errorf("parsing cache config: %w", err)
	}
	if err := env.Parse(&cfg.Auth); err != nil {
		return nil, fmt.Errorf("parsing auth config: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("parsing log config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UseMemoryStore returns true if the in-memory manual cluster store should
// be used instead of a SQL database.
func (c *Config) UseMemoryStore() bool {
	driver := strings.TrimSpace(c.Database.Driver)
	return driver == "" || driver == "memory"
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.VLAN.URL == "" {
		return fmt.Errorf("VLAN_MANAGER_URL is required")
	}
	if c.VLAN.SyncInterval <= 0 {
		return fmt.Errorf("VLAN_SYNC_INTERVAL must be positive")
	}
	if c.DNS.Server == "" {
		return fmt.Errorf("DNS_SERVER is required")
	}
	if c.DNS.Timeout <= 0 {
		return fmt.Errorf("DNS_TIMEOUT must be positive")
	}
	if !strings.Contains(c.DNS.ResolutionPath, "{cluster}") {
		return fmt.Errorf("DNS_RESOLUTION_PATH must contain a {cluster} placeholder")
	}
	if c.Cluster.Prefix == "" {
		return fmt.Errorf("CLUSTER_PREFIX is required")
	}
	if c.Cache.File == "" {
		return fmt.Errorf("CACHE_FILE is required")
	}
	if c.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if !c.UseMemoryStore() && c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required when DB_DRIVER is set")
	}

	return nil
}
