package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"
	EngineWebkit   = "webkit"

	StrategyStackScan   = "stack_scan"
	StrategyContainment = "containment"
)

type Config struct {
	AppConfig     *AppConfig
	BrowserConfig *BrowserConfig
	ProbeConfig   *ProbeConfig
}

type AppConfig struct {
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	Debug         bool   `envconfig:"DEBUG" default:"false"`
	LogFile       string `envconfig:"LOG_FILE"`
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"50"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	LogMaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"7"`
	TraceStdout   bool   `envconfig:"TRACE_STDOUT" default:"false"`
	ServiceName   string `envconfig:"SERVICE_NAME" default:"ui-probe"`
}

type BrowserConfig struct {
	Engine            string `envconfig:"BROWSER_ENGINE" default:"chromium"`
	Headless          bool   `envconfig:"BROWSER_HEADLESS" default:"true"`
	SlowMo            int    `envconfig:"BROWSER_SLOW_MO" default:"0"`
	Timeout           int    `envconfig:"BROWSER_TIMEOUT" default:"30000"`
	ViewportWidth     int    `envconfig:"BROWSER_VIEWPORT_WIDTH" default:"1280"`
	ViewportHeight    int    `envconfig:"BROWSER_VIEWPORT_HEIGHT" default:"720"`
	IgnoreHTTPSErrors bool   `envconfig:"BROWSER_IGNORE_HTTPS_ERRORS" default:"true"`
	Install           bool   `envconfig:"BROWSER_INSTALL" default:"false"`
	UserAgent         string `envconfig:"BROWSER_USER_AGENT"`
}

type ProbeConfig struct {
	// SegmentTimeout bounds each selector segment during Locate; zero defers
	// to the engine default.
	SegmentTimeout     time.Duration `envconfig:"PROBE_SEGMENT_TIMEOUT" default:"0s"`
	QueryTimeout       time.Duration `envconfig:"PROBE_QUERY_TIMEOUT" default:"1s"`
	PollAttempt        time.Duration `envconfig:"PROBE_POLL_ATTEMPT" default:"1s"`
	PollInterval       time.Duration `envconfig:"PROBE_POLL_INTERVAL" default:"1s"`
	VisibilityStrategy string        `envconfig:"PROBE_VISIBILITY_STRATEGY" default:"stack_scan"`
	RetryAllErrors     bool          `envconfig:"PROBE_RETRY_ALL_ERRORS" default:"false"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &conf, nil
}

func (c *Config) Validate() error {
	switch c.BrowserConfig.Engine {
	case EngineChromium, EngineFirefox, EngineWebkit:
	default:
		return fmt.Errorf("unknown browser engine %q", c.BrowserConfig.Engine)
	}

	switch c.ProbeConfig.VisibilityStrategy {
	case StrategyStackScan, StrategyContainment:
	default:
		return fmt.Errorf("unknown visibility strategy %q", c.ProbeConfig.VisibilityStrategy)
	}

	p := c.ProbeConfig
	if p.SegmentTimeout < 0 || p.QueryTimeout < 0 || p.PollAttempt < 0 || p.PollInterval < 0 {
		return fmt.Errorf("probe timeouts must not be negative")
	}

	if p.PollAttempt == 0 {
		return fmt.Errorf("PROBE_POLL_ATTEMPT must be positive")
	}

	if c.BrowserConfig.ViewportWidth <= 0 || c.BrowserConfig.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must have positive dimensions")
	}

	return nil
}
