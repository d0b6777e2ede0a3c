package config

import "github.com/spf13/viper"

// ServeConfig holds configuration for the websocket widget host.
type ServeConfig struct {
	Addr      string `mapstructure:"addr"`
	CacheSize int    `mapstructure:"cache_size"`
}

// Config holds all runtime configuration for a stickerc invocation.
// Values are populated from .stickerc.yaml, STICKERC_* env vars, and CLI flags.
type Config struct {
	WorkDir         string      `mapstructure:"work_dir"`
	RegistryPath    string      `mapstructure:"registry_path"`
	TracePath       string      `mapstructure:"trace_path"`
	Minify          bool        `mapstructure:"minify"`
	IncludeTests    bool        `mapstructure:"include_tests"`
	IncludeComments bool        `mapstructure:"include_comments"`
	Verbose         bool        `mapstructure:"verbose"`
	Serve           ServeConfig `mapstructure:"serve"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("work_dir", ".")
	viper.SetDefault("registry_path", ".stickernest/registry.db")
	viper.SetDefault("trace_path", "")
	viper.SetDefault("minify", false)
	viper.SetDefault("include_tests", true)
	viper.SetDefault("include_comments", true)
	viper.SetDefault("verbose", false)
	viper.SetDefault("serve.addr", "127.0.0.1:8736")
	viper.SetDefault("serve.cache_size", 128)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
