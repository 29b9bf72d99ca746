package types

import "time"

// Config holds the parameters for opening a Store and its companions.
type Config struct {
	DataPath          string        `json:"data_path" yaml:"data_path"`
	LockTimeout       time.Duration `json:"lock_timeout" yaml:"lock_timeout"`
	LockPollInterval  time.Duration `json:"lock_poll_interval" yaml:"lock_poll_interval"`
	CacheTTL          time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	PageSize          int           `json:"page_size" yaml:"page_size"`
	StrictPersistence bool          `json:"strict_persistence" yaml:"strict_persistence"`
}

// Defaults.
const (
	DefaultLockTimeout      = 5 * time.Second
	DefaultLockPollInterval = 100 * time.Millisecond
	DefaultCacheTTL         = 300 * time.Second
	DefaultPageSize         = 10
)

// LockPath returns the sentinel file guarding DataPath.
func (c Config) LockPath() string {
	return c.DataPath + ".lock"
}

// WithDefaults fills zero durations and sizes with their defaults.
func (c Config) WithDefaults() Config {
	if c.LockTimeout == 0 {
		c.LockTimeout = DefaultLockTimeout
	}
	if c.LockPollInterval == 0 {
		c.LockPollInterval = DefaultLockPollInterval
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.DataPath == "" {
		return ErrPathEmpty
	}
	if c.LockTimeout <= 0 {
		return ErrTimeoutInvalid
	}
	if c.LockPollInterval <= 0 {
		return ErrPollInvalid
	}
	if c.CacheTTL <= 0 {
		return ErrTTLInvalid
	}
	if c.PageSize <= 0 {
		return ErrPageSizeInvalid
	}
	return nil
}
