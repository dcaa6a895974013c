package appconfig

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch reloads the ambient config from path whenever it changes on
// disk and invokes onChange with the freshly parsed config. It is used
// to let an operator adjust the log level on a long simulation run
// without restarting it.
func Watch(path string, onChange func(*AppConfig)) error {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.OnConfigChange(func(fsnotify.Event) {
		var root configRoot
		if err := v.Unmarshal(&root); err != nil {
			return
		}
		onChange(&root.Disketch)
	})
	v.WatchConfig()
	return nil
}
