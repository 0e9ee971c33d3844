package logger

import (
	"io"

	"github.com/spf13/viper"
)

// EnvConfig configures the process logger from the environment.
type EnvConfig struct {
	Level       string    // debug, info, warn, error
	Format      string    // json, text
	Output      io.Writer // overrides every other destination when set
	ServiceName string    // "service" field on every line
	Environment string    // local writes to stdout only

	LogFile     string
	LogFileOnly bool

	// lumberjack rotation
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// LoadFromEnv reads LOG_* variables plus SERVICE_NAME and APP_ENV.
// It runs before config.Load, so it has its own viper instance.
func LoadFromEnv() *EnvConfig {
	v := viper.New()
	v.SetEnvPrefix("log")
	v.AutomaticEnv()

	v.SetDefault("level", "info")
	v.SetDefault("format", "json")
	v.SetDefault("file", "/var/log/reelquote/api.log")
	v.SetDefault("file_only", false)
	v.SetDefault("max_size", 100)
	v.SetDefault("max_backups", 7)
	v.SetDefault("max_age", 30)
	v.SetDefault("compress", true)

	_ = v.BindEnv("service_name", "SERVICE_NAME")
	_ = v.BindEnv("environment", "APP_ENV")
	v.SetDefault("service_name", "reelquote")
	v.SetDefault("environment", "local")

	return &EnvConfig{
		Level:       v.GetString("level"),
		Format:      v.GetString("format"),
		ServiceName: v.GetString("service_name"),
		Environment: v.GetString("environment"),
		LogFile:     v.GetString("file"),
		LogFileOnly: v.GetBool("file_only"),
		MaxSize:     v.GetInt("max_size"),
		MaxBackups:  v.GetInt("max_backups"),
		MaxAge:      v.GetInt("max_age"),
		Compress:    v.GetBool("compress"),
	}
}
