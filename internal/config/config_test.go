package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg := Load()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"WorkDir", cfg.WorkDir, "."},
		{"RegistryPath", cfg.RegistryPath, ".stickernest/registry.db"},
		{"TracePath", cfg.TracePath, ""},
		{"Minify", cfg.Minify, false},
		{"IncludeTests", cfg.IncludeTests, true},
		{"IncludeComments", cfg.IncludeComments, true},
		{"Verbose", cfg.Verbose, false},
		{"Serve.Addr", cfg.Serve.Addr, "127.0.0.1:8736"},
		{"Serve.CacheSize", cfg.Serve.CacheSize, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper()

	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "work_dir",
			envKey: "STICKERC_WORK_DIR",
			envVal: "/tmp/widgets",
			field:  func(c Config) any { return c.WorkDir },
			want:   "/tmp/widgets",
		},
		{
			name:   "registry_path",
			envKey: "STICKERC_REGISTRY_PATH",
			envVal: "/var/lib/stickernest/registry.db",
			field:  func(c Config) any { return c.RegistryPath },
			want:   "/var/lib/stickernest/registry.db",
		},
		{
			name:   "trace_path",
			envKey: "STICKERC_TRACE_PATH",
			envVal: "/tmp/trace.jsonl",
			field:  func(c Config) any { return c.TracePath },
			want:   "/tmp/trace.jsonl",
		},
		{
			name:   "minify",
			envKey: "STICKERC_MINIFY",
			envVal: "true",
			field:  func(c Config) any { return c.Minify },
			want:   true,
		},
		{
			name:   "verbose",
			envKey: "STICKERC_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			// Set env prefix so STICKERC_* env vars map to config keys.
			viper.SetEnvPrefix("STICKERC")
			viper.AutomaticEnv()

			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg := Load()
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_DefaultsAreNotZero(t *testing.T) {
	resetViper()

	cfg := Load()

	if cfg.WorkDir == "" {
		t.Error("WorkDir should not be empty")
	}
	if cfg.RegistryPath == "" {
		t.Error("RegistryPath should not be empty")
	}
	if cfg.Serve.Addr == "" {
		t.Error("Serve.Addr should not be empty")
	}
	if cfg.Serve.CacheSize == 0 {
		t.Error("Serve.CacheSize should not be zero")
	}
}
