package config

import (
	"testing"
)

// TestAcceptanceCriteria verifies the configuration contract of the rule API.
func TestAcceptanceCriteria(t *testing.T) {
	t.Run("AC1: Database password accepted from RK_DATABASE_URL", func(t *testing.T) {
		t.Setenv("RK_DATABASE_URL", "postgres://coach:hunter2@db:5432/rules")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("AC1 FAIL: LoadConfig error: %v", err)
		}
		if cfg.DatabaseURL != "postgres://coach:hunter2@db:5432/rules" {
			t.Fatalf("AC1 FAIL: DatabaseURL not taken from environment: %q", cfg.DatabaseURL)
		}
		t.Log("AC1 PASS: Environment variable accessible via DatabaseURL")
	})

	t.Run("AC2: Config file with database password rejected with clear error", func(t *testing.T) {
		path := writeConfig(t, `rule_api:
  host: "localhost"
database:
  url: "postgres://coach:hunter2@db:5432/rules"
`)
		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("AC2 FAIL: Expected error for password in config file")
		}
		if err.Error() != "database passwords not allowed in config files (use RK_DATABASE_URL environment variable)" {
			t.Fatalf("AC2 FAIL: Wrong error message: %v", err)
		}
		t.Log("AC2 PASS: Config file with database password rejected with clear error")
	})

	t.Run("AC3: Environment variables override config file", func(t *testing.T) {
		t.Setenv("RK_RULE_API_PORT", "8080")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("AC3 FAIL: LoadConfig error: %v", err)
		}
		if cfg.Port != 8080 {
			t.Fatalf("AC3 FAIL: Expected port 8080, got %d", cfg.Port)
		}

		path := writeConfig(t, `rule_api:
  port: 9090
`)
		cfg, err = LoadConfig(path)
		if err != nil {
			t.Fatalf("AC3 FAIL: LoadConfig error: %v", err)
		}
		// Environment variable (8080) should override config file (9090)
		if cfg.Port != 8080 {
			t.Fatalf("AC3 FAIL: Environment should override config file. Expected 8080, got %d", cfg.Port)
		}
		t.Log("AC3 PASS: Environment variables override config file (CLI flags > env > config in viper)")
	})
}
