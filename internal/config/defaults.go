package config

const (
	defaultDataDir   = "~/.local/share/unicsv"
	defaultLogDir    = "~/.local/share/unicsv/logs"
	defaultDelimiter = ","
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Conversion: Conversion{
			Delimiter: defaultDelimiter,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
