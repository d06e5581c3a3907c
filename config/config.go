// Package config reads the Betty site configuration using Viper.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/bartfeenstra/betty-sub005/errors"
)

// Config is the top-level configuration.
type Config struct {
	// Title is the human-readable name of the merged ancestry
	Title string `mapstructure:"title"`
	// Archives lists the Gramps archive files to load, in load order
	Archives []string `mapstructure:"archives"`
	Log      Log      `mapstructure:"log"`
}

// Log configures logging output.
type Log struct {
	// JSON switches structured JSON output on (for machine consumption)
	JSON bool `mapstructure:"json"`
}

// Load reads configuration from betty.toml in the working directory,
// falling back to defaults and BETTY_* environment variables.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("betty")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}
	return unmarshal(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("BETTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Ancestry")
	v.SetDefault("archives", []string{})
	v.SetDefault("log.json", false)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}
