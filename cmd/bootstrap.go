package cmd

import (
	"github.com/disketch/disketch/internal/appconfig"
	applog "github.com/disketch/disketch/internal/log"
)

// bootstrap loads the ambient config and initializes the global logger
// from it, applying any --log-level override from the command line.
func bootstrap() (*appconfig.AppConfig, error) {
	cfg, err := appconfig.Load(appConfigFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	applog.Init(&applog.LoggerConfig{
		Level:   cfg.Log.Level,
		Pattern: cfg.Log.Pattern,
		Time:    cfg.Log.Time,
		File: applog.FileAppenderOpt{
			Filename:   cfg.Log.File.Filename,
			MaxSize:    cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAge:     cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})

	if appConfigFile != "" && logLevel == "" {
		if err := appconfig.Watch(appConfigFile, func(updated *appconfig.AppConfig) {
			applog.SetLevel(updated.Log.Level)
		}); err != nil {
			applog.GetLogger().WithError(err).Warn("ambient config hot-reload disabled")
		}
	}

	return cfg, nil
}
