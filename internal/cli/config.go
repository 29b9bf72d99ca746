package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/sakuraflow/internal/paths"
	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "SAKURAFLOW"

	cfgKeyDataPath          = "data_path"
	cfgKeyLockTimeout       = "lock_timeout"
	cfgKeyLockPollInterval  = "lock_poll_interval"
	cfgKeyCacheTTL          = "cache_ttl"
	cfgKeyPageSize          = "page_size"
	cfgKeyLogLevel          = "log_level"
	cfgKeyStrictPersistence = "strict_persistence"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# sakuraflow configuration

# Data file (optional). --data overrides it; SAKURAFLOW_DATA is only
# consulted when it is unset.
# data_path: /srv/minecraft/sf_tasks/tasks.json

# How long a command waits for another process to release the data file.
lock_timeout: 5s
lock_poll_interval: 100ms

# How long search results stay available for paging in the shell.
cache_ttl: 5m

page_size: 10

# debug, info, warn or error
log_level: info

# Fail commands whose changes could not be written instead of only logging.
strict_persistence: false
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run. A missing config.yaml is
// not an error. Settings may also come from SAKURAFLOW_* environment
// variables.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyLockTimeout, types.DefaultLockTimeout)
	v.SetDefault(cfgKeyLockPollInterval, types.DefaultLockPollInterval)
	v.SetDefault(cfgKeyCacheTTL, types.DefaultCacheTTL)
	v.SetDefault(cfgKeyPageSize, types.DefaultPageSize)
	v.SetDefault(cfgKeyStrictPersistence, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in configDir.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	// Concurrent first runs must never read a half-written file.
	return atomic.WriteFile(path, strings.NewReader(defaultConfigYAML))
}

// configFromViper builds the store configuration from v for the data file
// at dataPath.
func configFromViper(v *viper.Viper, dataPath string) types.Config {
	return types.Config{
		DataPath:          dataPath,
		LockTimeout:       v.GetDuration(cfgKeyLockTimeout),
		LockPollInterval:  v.GetDuration(cfgKeyLockPollInterval),
		CacheTTL:          v.GetDuration(cfgKeyCacheTTL),
		PageSize:          v.GetInt(cfgKeyPageSize),
		StrictPersistence: v.GetBool(cfgKeyStrictPersistence),
	}
}
