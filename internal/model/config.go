package model

import (
	"runtime"
	"time"
)

// Config holds all releasediff settings
type Config struct {
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Groups GroupsConfig `yaml:"groups" mapstructure:"groups"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// RenderConfig controls the render workers
type RenderConfig struct {
	Workers        int     `yaml:"workers" mapstructure:"workers"`                 // Concurrent render runs
	RateLimit      float64 `yaml:"rate_limit" mapstructure:"rate_limit"`           // Runs per second per repository host, 0 = unlimited
	Burst          int     `yaml:"burst" mapstructure:"burst"`                     // Rate limiter burst
	DetectLanguage bool    `yaml:"detect_language" mapstructure:"detect_language"` // Guess languages of unlabelled code blocks

	HostRates map[string]float64 `yaml:"host_rates,omitempty" mapstructure:"host_rates"` // Per-host overrides of RateLimit
}

// GroupsConfig holds the category ordering reference lists
type GroupsConfig struct {
	HighPriority []string `yaml:"high_priority" mapstructure:"high_priority"`
	LowPriority  []string `yaml:"low_priority" mapstructure:"low_priority"`
}

// CacheConfig controls the render result store
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"` // 0 = keep for the process lifetime
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// SourceConfig controls how release sources are read over HTTP
type SourceConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBytes   int64         `yaml:"max_bytes" mapstructure:"max_bytes"`
	HTTPProxy  string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// OutputConfig controls rendering of the changelog
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text or html
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Workers: runtime.NumCPU(),
			Burst:   5,
		},
		Groups: GroupsConfig{
			HighPriority: []string{BreakingChanges.Title(), Features.Title(), BugFixes.Title()},
			LowPriority:  []string{Thanks.Title(), Credits.Title(), Artifacts.Title()},
		},
		Cache: CacheConfig{
			CleanupInterval: 10 * time.Minute,
		},
		Source: SourceConfig{
			Timeout:   30 * time.Second,
			UserAgent: "releasediff/0.1 (+https://github.com/ppiankov/releasediff)",
			MaxBytes:  10_000_000,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
