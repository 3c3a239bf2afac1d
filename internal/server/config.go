package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/mortgage-analytics/internal/cache"
	"github.com/iwvelando/mortgage-analytics/internal/config"
	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string               `yaml:"address"`
	MaxBodySize   string               `yaml:"maxBodySize"`
	Logging       config.LoggingConfig `yaml:"logging"`
	Cache         CacheConfig          `yaml:"cache"`
	bodySizeBytes int64
	cacheTTL      time.Duration
}

// CacheConfig selects the surface cache backend. An empty RedisAddress keeps
// results in process memory.
type CacheConfig struct {
	Disabled     bool   `yaml:"disabled"`
	RedisAddress string `yaml:"redisAddress"`
	TTL          string `yaml:"ttl"`
	MaxEntries   int    `yaml:"maxEntries"`
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:       constants.DefaultServerAddress,
		MaxBodySize:   fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes),
		Cache:         CacheConfig{TTL: constants.DefaultCacheTTL, MaxEntries: constants.DefaultCacheMaxEntries},
		bodySizeBytes: constants.DefaultMaxBodySizeBytes,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the configured request body limit.
func (c *Config) SetBodySizeBytes(size int64) {
	if size > 0 {
		c.bodySizeBytes = size
		c.MaxBodySize = fmt.Sprintf("%d", size)
	}
}

// CacheTTL returns how long surface results are cached.
func (c *Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

// NewCache builds the configured surface cache, or nil when caching is
// disabled.
func (c *Config) NewCache() cache.Cache {
	if c.Cache.Disabled {
		return nil
	}
	if addr := strings.TrimSpace(c.Cache.RedisAddress); addr != "" {
		return cache.NewRedis(addr, c.cacheTTL)
	}
	return cache.NewMemory(c.cacheTTL, c.Cache.MaxEntries)
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	ttl := strings.TrimSpace(c.Cache.TTL)
	if ttl == "" {
		ttl = constants.DefaultCacheTTL
	}
	parsed, err := time.ParseDuration(ttl)
	if err != nil {
		return fmt.Errorf("invalid cache ttl %q: %w", c.Cache.TTL, err)
	}
	if parsed < 0 {
		return fmt.Errorf("invalid cache ttl %q: must not be negative", c.Cache.TTL)
	}
	c.cacheTTL = parsed
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("invalid cache maxEntries %d: must not be negative", c.Cache.MaxEntries)
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = constants.DefaultCacheMaxEntries
	}

	sizeStr := strings.TrimSpace(c.MaxBodySize)
	if sizeStr == "" {
		c.bodySizeBytes = constants.DefaultMaxBodySizeBytes
		c.MaxBodySize = fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
