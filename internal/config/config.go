// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"spatial-notepad/internal/logging"
	"spatial-notepad/internal/model"
	"spatial-notepad/internal/store"
)

const (
	EnvDir       = "NOTEPAD_DIR"
	EnvAddr      = "NOTEPAD_ADDR"
	EnvLang      = "NOTEPAD_LANG"
	EnvLogLevel  = "NOTEPAD_LOG_LEVEL"
	EnvLogFormat = "NOTEPAD_LOG_FORMAT"
	EnvLinksURL  = "NOTEPAD_LINKS_URL"
)

const DefaultAddr = "127.0.0.1:3000"

type Config struct {
	// Dir holds notepad.sqlite and links.json.
	Dir       string
	Addr      string
	Language  string
	LogLevel  string
	LogFormat string
	// LinksURL is the base URL of a remote link registry; empty disables it.
	LinksURL string
}

// FromEnv builds a Config from NOTEPAD_* variables, with defaults.
func FromEnv() *Config {
	return &Config{
		Dir:       getEnv(EnvDir, defaultDir()),
		Addr:      getEnv(EnvAddr, DefaultAddr),
		Language:  getEnv(EnvLang, string(model.LanguageEN)),
		LogLevel:  getEnv(EnvLogLevel, "warn"),
		LogFormat: getEnv(EnvLogFormat, "text"),
		LinksURL:  getEnv(EnvLinksURL, ""),
	}
}

// Validate normalizes the fields and rejects unknown values.
func (c *Config) Validate() error {
	c.Dir = strings.TrimSpace(c.Dir)
	c.Addr = strings.TrimSpace(c.Addr)
	c.LinksURL = strings.TrimSpace(c.LinksURL)
	if c.Dir == "" {
		c.Dir = defaultDir()
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	lang, err := model.ParseLanguage(c.Language)
	if err != nil {
		return err
	}
	c.Language = string(lang)
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (expected text|json)", c.LogFormat)
	}
	return nil
}

func (c *Config) Lang() model.Language {
	lang, err := model.ParseLanguage(c.Language)
	if err != nil {
		return model.LanguageEN
	}
	return lang
}

func defaultDir() string {
	if dir, err := store.DefaultDir(); err == nil {
		return dir
	}
	return filepath.Join(".", ".notepad")
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}
