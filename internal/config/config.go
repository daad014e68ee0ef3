// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/loginprobe/api/schemas"
)

// Config holds the entire application configuration. Values are resolved by
// viper with the usual precedence: flags over environment over config file
// over defaults.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Engine     EngineConfig     `mapstructure:"engine" yaml:"engine"`
	Resolver   ResolverConfig   `mapstructure:"resolver" yaml:"resolver"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Browser    BrowserConfig    `mapstructure:"browser" yaml:"browser"`
	// Run gets its marching orders from CLI flags, not the config file.
	Run RunConfig `mapstructure:"-" yaml:"-"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig tunes the batch engine that fans scenarios out to executors.
type EngineConfig struct {
	// Concurrency bounds the number of scenarios in flight at once. Each
	// in-flight scenario owns its own page session.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// RunTimeout is the overall deadline for a batch. Scenarios still
	// running when it expires are recorded as errors, not retried.
	RunTimeout time.Duration `mapstructure:"run_timeout" yaml:"run_timeout"`
	// AttemptInterval paces scenario launches. Login endpoints tend to
	// lock accounts when hammered, so a floor between attempts is often
	// required against real targets. Zero disables pacing.
	AttemptInterval time.Duration `mapstructure:"attempt_interval" yaml:"attempt_interval"`
	// SettleDelay is the fixed pause after submitting credentials, giving
	// the page time to transition before classification reads it.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
}

// ResolverConfig tunes adaptive element resolution.
type ResolverConfig struct {
	// CandidateTimeout bounds how long the resolver polls for any single
	// candidate selector before moving on to the next one.
	CandidateTimeout time.Duration `mapstructure:"candidate_timeout" yaml:"candidate_timeout"`
	// PollInterval is the fixed interval between presence probes.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	// Hints maps an element role to the ordered attribute names used to
	// build candidate selectors for it. Order defines priority.
	Hints map[string][]string `mapstructure:"hints" yaml:"hints"`
}

// HintsFor returns the attribute hints configured for a role.
func (r ResolverConfig) HintsFor(role schemas.ElementRole) []string {
	return r.Hints[string(role)]
}

// ClassifierConfig carries the keyword sets the outcome classifier matches
// against. Both sets are injected configuration so classification can be
// tuned per target application.
type ClassifierConfig struct {
	SuccessKeywords []string `mapstructure:"success_keywords" yaml:"success_keywords"`
	FailureKeywords []string `mapstructure:"failure_keywords" yaml:"failure_keywords"`
}

// BrowserConfig holds settings for the headless browser sessions.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors   bool          `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// RunConfig holds settings populated from CLI flags for a specific batch run.
type RunConfig struct {
	TargetURL     string
	ScenarioFile  string
	Output        string
	Format        string
	FailOnTrouble bool
}

// SetDefaults initializes default values for all configuration parameters.
// The keyword and hint defaults reproduce the heuristics that proved workable
// against typical login forms.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "loginprobe")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Engine --
	v.SetDefault("engine.concurrency", 1)
	v.SetDefault("engine.run_timeout", "10m")
	v.SetDefault("engine.attempt_interval", "0s")
	v.SetDefault("engine.settle_delay", "2s")

	// -- Resolver --
	v.SetDefault("resolver.candidate_timeout", "3s")
	v.SetDefault("resolver.poll_interval", "250ms")
	v.SetDefault("resolver.hints", map[string][]string{
		string(schemas.RoleUsername): {"id", "name", "placeholder"},
		string(schemas.RolePassword): {"id", "name", "type"},
		string(schemas.RoleSubmit):   {"id", "class", "value"},
	})

	// -- Classifier --
	v.SetDefault("classifier.success_keywords", []string{"dashboard", "welcome", "success", "home"})
	v.SetDefault("classifier.failure_keywords", []string{"error", "invalid", "failure", "login"})

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.args", []string{"no-sandbox", "disable-dev-shm-usage"})
	v.SetDefault("browser.navigation_timeout", "30s")
}

// NewDefaultConfig creates a configuration struct populated with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with our own defaults.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object and
// validates it.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
// These are structural faults: they abort a run instead of being silently
// defaulted, unlike per-scenario failures which are contained per result.
func (c *Config) Validate() error {
	if c.Engine.Concurrency < 1 {
		return fmt.Errorf("engine.concurrency must be at least 1")
	}
	if c.Engine.SettleDelay < 0 {
		return fmt.Errorf("engine.settle_delay must not be negative")
	}
	if c.Resolver.CandidateTimeout <= 0 {
		return fmt.Errorf("resolver.candidate_timeout must be a positive duration")
	}
	if c.Resolver.PollInterval <= 0 {
		return fmt.Errorf("resolver.poll_interval must be a positive duration")
	}
	if c.Resolver.PollInterval > c.Resolver.CandidateTimeout {
		return fmt.Errorf("resolver.poll_interval must not exceed resolver.candidate_timeout")
	}
	if len(c.Classifier.SuccessKeywords) == 0 {
		return fmt.Errorf("classifier.success_keywords must not be empty")
	}
	if len(c.Classifier.FailureKeywords) == 0 {
		return fmt.Errorf("classifier.failure_keywords must not be empty")
	}
	for _, role := range []schemas.ElementRole{schemas.RoleUsername, schemas.RolePassword, schemas.RoleSubmit} {
		if len(c.Resolver.HintsFor(role)) == 0 {
			return fmt.Errorf("resolver.hints.%s must not be empty", role)
		}
	}
	return nil
}
