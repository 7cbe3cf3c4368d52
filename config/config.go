// Package config resolves runtime configuration with precedence:
//  1. Environment variables, optionally loaded from a .env file (highest)
//  2. Configuration file (~/.jobwizard/config.yaml)
//  3. Default values (lowest)
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pevans/jobwizard/query"
	"github.com/pevans/jobwizard/source"
)

// Environment variables read by Load.
const (
	EnvAllowUnrestricted = "ALLOW_UNRESTRICTED_REGION"
	EnvAllowRU           = "ALLOW_RU"
	EnvAddr              = "JOBWIZARD_ADDR"
	EnvPrimaryFeed       = "JOBWIZARD_PRIMARY_FEED"
	EnvSecondaryPage     = "JOBWIZARD_SECONDARY_PAGE"
	EnvFetchTimeout      = "JOBWIZARD_FETCH_TIMEOUT"
	EnvDiagnosticsDSN    = "JOBWIZARD_DIAGNOSTICS_DSN"
	EnvResolveFeedHost   = "JOBWIZARD_RESOLVE_FEED_HOST"
	EnvSessionIdle       = "JOBWIZARD_SESSION_IDLE_TIMEOUT"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
	EnvOwnerName         = "OWNER_NAME"
	EnvOwnerURL          = "OWNER_URL"
)

// Defaults.
const (
	DefaultAddr      = "localhost:8090"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
	DefaultOwnerName = "Author Name"
	DefaultOwnerURL  = "https://example.com"

	DefaultSessionIdleTimeout = 24 * time.Hour
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved runtime configuration.
type Config struct {
	Addr string
	// SessionIdleTimeout is how long an API session may stay unused. Zero
	// keeps sessions until deleted.
	SessionIdleTimeout time.Duration

	PrimaryFeed   string
	SecondaryPage source.PageConfig
	FetchTimeout  time.Duration
	Limit         int
	UserAgent     string
	// ResolveFeedHost makes each search resolve the feed host first and go
	// straight to the listings page when that fails. Disable it when DNS is
	// only available through a proxy.
	ResolveFeedHost bool

	AllowUnrestrictedRegion bool
	// ForbiddenTerms replaces the default region denylist when set.
	ForbiddenTerms []string

	// DiagnosticsDSN is the SQLite path of the query trail store. Empty
	// keeps trails in memory.
	DiagnosticsDSN string

	LogLevel  string
	LogFormat string

	OwnerName string
	OwnerURL  string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Addr:                    DefaultAddr,
		SessionIdleTimeout:      DefaultSessionIdleTimeout,
		ResolveFeedHost:         true,
		PrimaryFeed:             query.DefaultPrimaryEndpoint,
		SecondaryPage:           source.PageConfig{URL: query.DefaultSecondaryEndpoint, AnchorSelector: source.DefaultAnchorSelector},
		FetchTimeout:            source.DefaultTimeout,
		Limit:                   source.DefaultLimit,
		UserAgent:               source.DefaultUserAgent,
		AllowUnrestrictedRegion: true,
		LogLevel:                DefaultLogLevel,
		LogFormat:               DefaultLogFormat,
		OwnerName:               DefaultOwnerName,
		OwnerURL:                DefaultOwnerURL,
	}
}

// Load loads .env (if present), the config file (if present) and the
// environment, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	fc, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := cfg.ApplyFile(fc); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFile overrides c with the values set in fc. A nil fc changes nothing.
func (c *Config) ApplyFile(fc *FileConfig) error {
	if fc == nil {
		return nil
	}

	setString(&c.Addr, fc.Server.Addr)
	setString(&c.PrimaryFeed, fc.Sources.Primary.URL)
	setString(&c.SecondaryPage.URL, fc.Sources.Secondary.URL)
	setString(&c.SecondaryPage.AnchorSelector, fc.Sources.Secondary.AnchorSelector)
	setString(&c.UserAgent, fc.Sources.UserAgent)
	setString(&c.DiagnosticsDSN, fc.Diagnostics.DSN)
	setString(&c.LogLevel, fc.Logging.Level)
	setString(&c.LogFormat, fc.Logging.Format)
	setString(&c.OwnerName, fc.Owner.Name)
	setString(&c.OwnerURL, fc.Owner.URL)

	if fc.Sources.FetchTimeout != "" {
		d, err := time.ParseDuration(fc.Sources.FetchTimeout)
		if err != nil {
			return fmt.Errorf("%w: sources.fetch_timeout: %v", ErrInvalidConfig, err)
		}
		c.FetchTimeout = d
	}
	if fc.Server.SessionIdleTimeout != "" {
		d, err := time.ParseDuration(fc.Server.SessionIdleTimeout)
		if err != nil {
			return fmt.Errorf("%w: server.session_idle_timeout: %v", ErrInvalidConfig, err)
		}
		c.SessionIdleTimeout = d
	}
	if fc.Sources.Primary.ResolveHost != nil {
		c.ResolveFeedHost = *fc.Sources.Primary.ResolveHost
	}
	if fc.Sources.Limit != 0 {
		c.Limit = fc.Sources.Limit
	}
	if fc.Filter.AllowUnrestrictedRegion != nil {
		c.AllowUnrestrictedRegion = *fc.Filter.AllowUnrestrictedRegion
	}
	if len(fc.Filter.Terms) > 0 {
		c.ForbiddenTerms = fc.Filter.Terms
	}
	return nil
}

// ApplyEnv overrides c with the environment variables reported by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		val, _ := lookup(key)
		return strings.TrimSpace(val)
	}

	setString(&c.Addr, get(EnvAddr))
	setString(&c.PrimaryFeed, get(EnvPrimaryFeed))
	setString(&c.SecondaryPage.URL, get(EnvSecondaryPage))
	setString(&c.DiagnosticsDSN, get(EnvDiagnosticsDSN))
	setString(&c.LogLevel, get(EnvLogLevel))
	setString(&c.LogFormat, get(EnvLogFormat))
	setString(&c.OwnerName, get(EnvOwnerName))
	setString(&c.OwnerURL, get(EnvOwnerURL))

	if val := get(EnvFetchTimeout); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvFetchTimeout, err)
		}
		c.FetchTimeout = d
	}

	if val := get(EnvSessionIdle); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvSessionIdle, err)
		}
		c.SessionIdleTimeout = d
	}
	if val := get(EnvResolveFeedHost); val != "" {
		c.ResolveFeedHost = parseToggle(val)
	}

	// ALLOW_RU is the older name of the toggle.
	for _, key := range []string{EnvAllowRU, EnvAllowUnrestricted} {
		if val := get(key); val != "" {
			c.AllowUnrestrictedRegion = parseToggle(val)
		}
	}
	return nil
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	var errs []error

	if err := validateURL(c.PrimaryFeed); err != nil {
		errs = append(errs, fmt.Errorf("primary feed: %w", err))
	}
	if err := validateURL(c.SecondaryPage.URL); err != nil {
		errs = append(errs, fmt.Errorf("secondary page: %w", err))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout))
	}
	if c.SessionIdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("session idle timeout must not be negative, got %s", c.SessionIdleTimeout))
	}
	if c.Limit <= 0 {
		errs = append(errs, fmt.Errorf("limit must be positive, got %d", c.Limit))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https scheme", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// parseToggle accepts 1, true, yes and y (any case) as true.
func parseToggle(val string) bool {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "y":
		return true
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return false
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}
