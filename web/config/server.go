package config

// ServerConfig is read from the "web" key. Durations are milliseconds.
type ServerConfig struct {
	HttpPort                int    `mapstructure:"http_port"`
	ShutdownTimeout         int    `mapstructure:"shutdown_timeout"`
	ServerReadHeaderTimeout int    `mapstructure:"server_read_header_timeout"`
	ServerReadTimeout       int    `mapstructure:"server_read_timeout"`
	ServerWriteTimeout      int    `mapstructure:"server_write_timeout"`
	ServerIdleTimeout       int    `mapstructure:"server_idle_timeout"`
	RequestTimeout          int    `mapstructure:"request_timeout"`
	MetricsPath             string `mapstructure:"metrics_path"`
	Cors                    CorsConfig
}

type CorsConfig struct {
	AllowOrigin      []string `mapstructure:"allow_origin"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

func (c *CorsConfig) Enabled() bool {
	return 0 < len(c.AllowOrigin)
}
