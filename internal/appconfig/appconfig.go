// Package appconfig loads the ambient, process-level configuration
// (logging, metrics, default output format) that sits alongside, but
// separate from, a simulation's own INI config: these are concerns of
// running the disketch binary, not inputs to the simulation itself.
package appconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig is the top-level ambient configuration, mapped to the
// `disketch:` root key in YAML; env vars use the DISKETCH_ prefix
// (e.g. DISKETCH_LOG_LEVEL).
type AppConfig struct {
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Output  OutputConfig  `mapstructure:"output"`
}

// LogConfig controls the logrus-backed logger.
type LogConfig struct {
	Level   string         `mapstructure:"level"`
	Pattern string         `mapstructure:"pattern"`
	Time    string         `mapstructure:"time"`
	File    FileLogConfig  `mapstructure:"file"`
}

// FileLogConfig configures rotating file output, mapped directly onto
// lumberjack.Logger's fields.
type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// MetricsConfig controls the optional Prometheus HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// OutputConfig controls the default report rendering.
type OutputConfig struct {
	Format string `mapstructure:"format"` // csv | json
	Indent bool   `mapstructure:"indent"` // json only
}

type configRoot struct {
	Disketch AppConfig `mapstructure:"disketch"`
}

// Load reads the ambient config from path, applying defaults for any
// field left unset. An empty path is not an error: no file is read and
// every field takes its usable default, matching the original tool's "progress_bar defaults
// to true" style of forgiving ambient settings.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("appconfig: reading %s: %w", path, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("appconfig: unmarshalling: %w", err)
	}
	cfg := root.Disketch
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "csv"
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("disketch.log.level", "info")
	v.SetDefault("disketch.log.pattern", "%time [%level] %field%msg\n")
	v.SetDefault("disketch.log.time", "2006-01-02T15:04:05.000Z07:00")
	v.SetDefault("disketch.metrics.enabled", false)
	v.SetDefault("disketch.metrics.listen", ":9401")
	v.SetDefault("disketch.metrics.path", "/metrics")
	v.SetDefault("disketch.output.format", "csv")
	v.SetDefault("disketch.output.indent", false)
}
