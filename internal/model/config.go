package model

import "time"

// Config holds every tunable of a kampsync run
type Config struct {
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Schedule     ScheduleConfig    `yaml:"schedule" mapstructure:"schedule"`
	Results      ResultsConfig     `yaml:"results" mapstructure:"results"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging      LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Teams        []Team            `yaml:"teams" mapstructure:"teams"`
}

// HTTPConfig configures outbound requests
type HTTPConfig struct {
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ScheduleConfig configures the fixture feed download
type ScheduleConfig struct {
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	Backoff        time.Duration `yaml:"backoff" mapstructure:"backoff"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout"`
}

// ResultsConfig configures match result page scraping
type ResultsConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Delay         time.Duration `yaml:"delay" mapstructure:"delay"`
	Extractor     string        `yaml:"extractor" mapstructure:"extractor"` // selector | pattern
	Container     string        `yaml:"container" mapstructure:"container"`
	Cell          string        `yaml:"cell" mapstructure:"cell"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// RateLimitConfig bounds request rate per host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`

	// Overrides for single hosts, e.g. a result site slower than the fixture feed
	Hosts []HostRateLimit `yaml:"hosts,omitempty" mapstructure:"hosts"`
}

// HostRateLimit is the rate for one host, matched as host[:port]
type HostRateLimit struct {
	Host              string  `yaml:"host" mapstructure:"host"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig configures the resolved-result cache
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend  string        `yaml:"backend" mapstructure:"backend"` // layered | memory | disk | redis
	Dir      string        `yaml:"dir" mapstructure:"dir"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	RedisURL string        `yaml:"redis_url,omitempty" mapstructure:"redis_url"`
}

// OutputConfig controls where artifacts land
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ConcurrencyConfig controls fan-out across teams.
// Work for a single team is always sequential.
type ConcurrencyConfig struct {
	Teams int `yaml:"teams" mapstructure:"teams"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json | console
}

const (
	DefaultMaxAttempts    = 3
	DefaultBackoff        = 500 * time.Millisecond
	DefaultAttemptTimeout = 15 * time.Second
	MinAttemptTimeout     = 100 * time.Millisecond
	DefaultResultTimeout  = 10 * time.Second
	DefaultResultDelay    = 300 * time.Millisecond

	DefaultUserAgent = "kampsync/0.3 (+https://github.com/ppiankov/kampsync)"
)

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			UserAgent:    DefaultUserAgent,
			MaxBodyBytes: 8 << 20,
		},
		Schedule: ScheduleConfig{
			BaseURL:        "https://www.fotball.no/footballapi/Calendar/DownloadExcelTeamMatches",
			MaxAttempts:    DefaultMaxAttempts,
			Backoff:        DefaultBackoff,
			AttemptTimeout: DefaultAttemptTimeout,
		},
		Results: ResultsConfig{
			Timeout:       DefaultResultTimeout,
			Delay:         DefaultResultDelay,
			Extractor:     "selector",
			Container:     ".match__result",
			Cell:          "th.bold",
			RespectRobots: true,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 5,
			BurstSize:         1,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "layered",
			Dir:     ".kampsync-cache",
			TTL:     7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Dir: "data",
		},
		Concurrency: ConcurrencyConfig{
			Teams: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Normalize replaces out-of-range values with their defaults
func (c *Config) Normalize() {
	c.Schedule = c.Schedule.Normalized()
	if c.Results.Timeout <= 0 {
		c.Results.Timeout = DefaultResultTimeout
	}
	if c.Results.Delay < 0 {
		c.Results.Delay = DefaultResultDelay
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 8 << 20
	}
	if c.Concurrency.Teams < 1 {
		c.Concurrency.Teams = 1
	}
}

// Normalized returns a copy with out-of-range retry settings replaced by defaults
func (s ScheduleConfig) Normalized() ScheduleConfig {
	if s.MaxAttempts < 1 {
		s.MaxAttempts = DefaultMaxAttempts
	}
	if s.Backoff < 0 {
		s.Backoff = DefaultBackoff
	}
	if s.AttemptTimeout < MinAttemptTimeout {
		s.AttemptTimeout = DefaultAttemptTimeout
	}
	return s
}
