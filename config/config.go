// Package config loads the application settings and the Google service account credential.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultListen = "127.0.0.1:8080"
	DefaultName   = "hi"
)

// Config holds the settings for locating and serving the spreadsheet.
type Config struct {
	Listen    string `mapstructure:"listen"`    // HTTP listen address
	Folder    string `mapstructure:"folder"`    // Drive folder ID holding the spreadsheet
	Name      string `mapstructure:"name"`      // spreadsheet file name
	Worksheet string `mapstructure:"worksheet"` // worksheet (tab) title, blank for the first worksheet
	Secrets   string `mapstructure:"secrets"`   // path to the service account secrets file
	Debug     bool   `mapstructure:"debug"`
}

// Load reads the configuration file (if it exists) and applies YATED_* environment overrides on
// top of the defaults.
func Load(path string, secrets string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("toml")
	v.SetEnvPrefix("YATED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen", DefaultListen)
	v.SetDefault("folder", "")
	v.SetDefault("name", DefaultName)
	v.SetDefault("worksheet", "")
	v.SetDefault("secrets", secrets)
	v.SetDefault("debug", false)

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading configuration file %v (%w)", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration (%w)", err)
	}

	c.Listen = strings.TrimSpace(c.Listen)
	c.Folder = strings.TrimSpace(c.Folder)
	c.Name = strings.TrimSpace(c.Name)
	c.Worksheet = strings.TrimSpace(c.Worksheet)
	c.Secrets = strings.TrimSpace(c.Secrets)

	return &c, nil
}

// Validate checks that everything needed to locate the spreadsheet has been configured.
func (c *Config) Validate() error {
	if c.Folder == "" {
		return fmt.Errorf("missing Drive folder ID - set 'folder' in the configuration file or YATED_FOLDER")
	}

	if c.Name == "" {
		return fmt.Errorf("missing spreadsheet name")
	}

	if c.Secrets == "" {
		return fmt.Errorf("missing secrets file")
	}

	return nil
}
