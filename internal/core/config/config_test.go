package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Host != "0.0.0.0" {
			t.Errorf("expected host 0.0.0.0, got %s", cfg.Host)
		}
		if cfg.Port != 50061 {
			t.Errorf("expected port 50061, got %d", cfg.Port)
		}
		if cfg.RequestTimeout != 10*time.Second {
			t.Errorf("expected request_timeout 10s, got %v", cfg.RequestTimeout)
		}
		if cfg.MaxRulesPerCoach != 10000 {
			t.Errorf("expected max_rules_per_coach 10000, got %d", cfg.MaxRulesPerCoach)
		}
		if cfg.MetricsAddr != ":9464" {
			t.Errorf("expected metrics_addr :9464, got %s", cfg.MetricsAddr)
		}
		if cfg.Addr() != "0.0.0.0:50061" {
			t.Errorf("expected addr 0.0.0.0:50061, got %s", cfg.Addr())
		}
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv("RK_RULE_API_HOST", "127.0.0.1")
		t.Setenv("RK_RULE_API_REQUEST_TIMEOUT", "2s")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Host != "127.0.0.1" {
			t.Errorf("expected host 127.0.0.1, got %s", cfg.Host)
		}
		if cfg.RequestTimeout != 2*time.Second {
			t.Errorf("expected request_timeout 2s, got %v", cfg.RequestTimeout)
		}
	})

	t.Run("config file", func(t *testing.T) {
		path := writeConfig(t, `rule_api:
  port: 6000
  metrics_addr: ""
database:
  url: "sqlite:///var/lib/rulekeeper/rules.db"
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Port != 6000 {
			t.Errorf("expected port 6000, got %d", cfg.Port)
		}
		if cfg.MetricsAddr != "" {
			t.Errorf("expected metrics disabled, got %q", cfg.MetricsAddr)
		}
		if cfg.DatabaseURL != "sqlite:///var/lib/rulekeeper/rules.db" {
			t.Errorf("unexpected database url %q", cfg.DatabaseURL)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := map[string]string{
			"RK_RULE_API_PORT":                "70000",
			"RK_RULE_API_REQUEST_TIMEOUT":     "0s",
			"RK_RULE_API_MAX_RULES_PER_COACH": "0",
		}
		for key, val := range tests {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, val)
				if _, err := LoadConfig(""); err == nil {
					t.Errorf("expected error for %s=%s", key, val)
				}
			})
		}
	})
}

func TestHasPassword(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"", false},
		{"sqlite:///tmp/rules.db", false},
		{"postgres://coach@db:5432/rules", false},
		{"postgres://coach:hunter2@db:5432/rules", true},
		{"postgres://coach:@db/rules", true},
		{"://bad url", true},
	}
	for _, tt := range tests {
		if got := HasPassword(tt.url); got != tt.want {
			t.Errorf("HasPassword(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
