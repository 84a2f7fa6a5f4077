package types

import "errors"

// Config selects the database driver and its parameters.
type Config struct {
	Driver    string `json:"driver" yaml:"driver" mapstructure:"driver"`
	DSN       string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	DataDir   string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	LogLevel  string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" mapstructure:"log_format"`
}

// Supported driver names.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Supported log formats. An empty format means text.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config validation errors.
var (
	ErrDriverEmpty      = errors.New("driver must not be empty")
	ErrDriverUnknown    = errors.New("unknown driver")
	ErrDSNRequired      = errors.New("dsn is required for this driver")
	ErrLogFormatUnknown = errors.New("unknown log format")
)

var knownDrivers = map[string]bool{
	DriverSQLite: true,
	DriverMySQL:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Driver == "" {
		return ErrDriverEmpty
	}
	if !knownDrivers[c.Driver] {
		return ErrDriverUnknown
	}
	if c.Driver == DriverMySQL && c.DSN == "" {
		return ErrDSNRequired
	}
	switch c.LogFormat {
	case "", LogFormatText, LogFormatJSON:
	default:
		return ErrLogFormatUnknown
	}
	return nil
}
