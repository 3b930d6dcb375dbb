package domain

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Script       ScriptConfig       `mapstructure:"script"`
	Download     DownloadConfig     `mapstructure:"download"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ScriptConfig describes how to invoke the external downloader script
type ScriptConfig struct {
	Interpreter string `mapstructure:"interpreter"` // e.g. python3
	Path        string `mapstructure:"path"`        // path to pahe-dl.py
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	OutputDir    string `mapstructure:"output_dir"`
	LogsDir      string `mapstructure:"logs_dir"`
	DatabasePath string `mapstructure:"database_path"`
}

// NotificationConfig contains desktop notification configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Script: ScriptConfig{
			Interpreter: "python3",
			Path:        "./pahe-dl.py",
		},
		Download: DownloadConfig{
			OutputDir:    "$HOME/Downloads/pahe-web/downloads",
			LogsDir:      "$HOME/Downloads/pahe-web/logs",
			DatabasePath: "$HOME/Downloads/pahe-web/history.db",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
