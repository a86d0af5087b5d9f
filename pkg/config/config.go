// Package config loads grapher settings.
//
// The CLI reads an optional TOML file (see [DefaultPath]):
//
//	[layout]
//	direction = "vertical"
//	node_separation = 20
//	rank_separation = 20
//	timeout = "2.5s"
//
//	[cache]
//	dir = "~/.cache/grapher"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[worker]
//	url = "http://localhost:8095"
//
// The layout worker is configured from GRAPHER_* environment variables
// instead, see [WorkerEnv].
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/grapher/pkg/cache"
	"github.com/matzehuels/grapher/pkg/errors"
	"github.com/matzehuels/grapher/pkg/layout"
)

// FileName is the config file name inside the config directory.
const FileName = "grapher.toml"

// Config is the CLI configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Worker WorkerConfig `toml:"worker"`
}

// LayoutConfig tunes the layout request.
type LayoutConfig struct {
	Direction      string        `toml:"direction"`
	NodeSeparation float64       `toml:"node_separation"`
	RankSeparation float64       `toml:"rank_separation"`
	Timeout        time.Duration `toml:"timeout"`
}

// CacheConfig selects the layout cache.
type CacheConfig struct {
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
	Disabled  bool          `toml:"disabled"`
}

// WorkerConfig points the CLI at a layout worker.
type WorkerConfig struct {
	URL string `toml:"url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			NodeSeparation: layout.DefaultNodeSeparation,
			RankSeparation: layout.DefaultRankSeparation,
			Timeout:        layout.DefaultTimeout,
		},
		Cache: CacheConfig{TTL: cache.DefaultTTL},
	}
}

// DefaultPath returns grapher.toml in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "grapher", FileName), nil
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && stderrors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := errors.ValidateDirection(c.Layout.Direction); err != nil {
		return err
	}
	if c.Layout.NodeSeparation < 0 || c.Layout.RankSeparation < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout separations must not be negative")
	}
	if c.Layout.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.timeout must not be negative")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// WorkerEnv configures the layout worker server.
type WorkerEnv struct {
	Addr          string        `envconfig:"WORKER_ADDR" default:":8095"`
	EngineTimeout time.Duration `envconfig:"WORKER_ENGINE_TIMEOUT" default:"60s"`
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"168h"`
}

// EnvPrefix prefixes every worker environment variable.
const EnvPrefix = "GRAPHER"

// LoadWorkerEnv reads the GRAPHER_* variables.
func LoadWorkerEnv() (*WorkerEnv, error) {
	var env WorkerEnv
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "worker environment")
	}
	return &env, nil
}
