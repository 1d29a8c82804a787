package config

import (
	"errors"
	"strings"
)

type Config struct {
	SiteTitle  string `mapstructure:"siteTitle"`
	BaseURL    string `mapstructure:"baseURL"`
	ContentDir string `mapstructure:"contentDir"`
	LayoutsDir string `mapstructure:"layoutsDir"`
	TypesFile  string `mapstructure:"typesFile"`
	Database   string `mapstructure:"database"`
	Addr       string `mapstructure:"addr"`
	LogLevel   string `mapstructure:"logLevel"`
}

// Defaults are applied to viper before reading the config file.
var Defaults = map[string]any{
	"siteTitle":  "My Mosaic Site",
	"baseURL":    "http://localhost:8080",
	"contentDir": "content",
	"layoutsDir": "layouts",
	"typesFile":  "types.yaml",
	"database":   "mosaic.db",
	"addr":       ":8080",
	"logLevel":   "info",
}

// Validate checks the fields the site cannot start without.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ContentDir) == "" {
		errs = append(errs, errors.New("contentDir must be set"))
	}
	if strings.TrimSpace(c.LayoutsDir) == "" {
		errs = append(errs, errors.New("layoutsDir must be set"))
	}
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr must be set"))
	}
	return errors.Join(errs...)
}

// SiteURL returns BaseURL without a trailing slash.
func (c Config) SiteURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}
