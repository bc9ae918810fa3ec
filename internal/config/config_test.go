package config

import (
	"path/filepath"
	"testing"

	"spatial-notepad/internal/model"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{EnvDir, EnvAddr, EnvLang, EnvLogLevel, EnvLogFormat, EnvLinksURL} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", t.TempDir())
	cfg := FromEnv()
	if cfg.Addr != DefaultAddr || cfg.Language != "en" || cfg.LogLevel != "warn" || cfg.LogFormat != "text" || cfg.LinksURL != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if filepath.Base(cfg.Dir) != ".notepad" {
		t.Fatalf("unexpected default dir: %s", cfg.Dir)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDir, dir)
	t.Setenv(EnvAddr, ":9999")
	t.Setenv(EnvLang, "RU")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLinksURL, "http://links.local")
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Dir != dir || cfg.Addr != ":9999" || cfg.Lang() != model.LanguageRU || cfg.LinksURL != "http://links.local" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cases := []Config{
		{Language: "de"},
		{LogLevel: "loud"},
		{LogFormat: "xml"},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
}
