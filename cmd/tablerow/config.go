package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tablerow/internal/paths"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "TABLEROW"

	cfgKeyDriver    = "driver"
	cfgKeyDSN       = "dsn"
	cfgKeyDataDir   = "data_dir"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# tablerow configuration

# Database driver: sqlite or mysql.
driver: sqlite

# Connection string. Required for mysql, for example
#   user:pass@tcp(localhost:3306)/tablerow?parseTime=true
# For sqlite it defaults to tablerow.db in the data directory.
# dsn:

# Data directory (optional; overridable by --data-dir)
# data_dir:

# debug, info, warn or error
log_level: warn

# text or json
log_format: text
`

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. TABLEROW_DRIVER, TABLEROW_DSN,
// TABLEROW_LOG_LEVEL and TABLEROW_LOG_FORMAT override the file. data_dir is
// left to paths.ResolveDataDir, which ranks the file above the environment.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyDriver, types.DriverSQLite)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyLogFormat, types.LogFormatText)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyDriver, cfgKeyDSN, cfgKeyLogLevel, cfgKeyLogFormat} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// connConfig builds the connection config from v with dataDir already
// resolved.
func connConfig(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Driver:    v.GetString(cfgKeyDriver),
		DSN:       v.GetString(cfgKeyDSN),
		DataDir:   dataDir,
		LogLevel:  v.GetString(cfgKeyLogLevel),
		LogFormat: v.GetString(cfgKeyLogFormat),
	}
}
