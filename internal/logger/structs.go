package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled" mapstructure:"enabled"`
	UseConsoleWriter bool
}

// Rotation holds lumberjack rotation limits for one log file.
type Rotation struct {
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// LogFile implements a file based logger.
type LogFile struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Path    string `toml:"path" mapstructure:"path"`

	AccessLog string `toml:"access" mapstructure:"access"`
	ErrorLog  string `toml:"error" mapstructure:"error"`
	InfoLog   string `toml:"info" mapstructure:"info"`
	TraceLog  string `toml:"trace" mapstructure:"trace"`
	WarnLog   string `toml:"warn" mapstructure:"warn"`

	// Rotation applies to every file above.
	Rotation Rotation `toml:"rotation" mapstructure:"rotation"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole if true the webservice access log goes to the console.
	// Does not overrule flag Console.Enabled!
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	File LogFile `toml:"file" mapstructure:"file"`
}
