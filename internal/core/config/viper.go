package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*RuleAPIConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultRuleAPIConfig
	d := DefaultRuleAPIConfig()
	v.SetDefault("rule_api.host", d.Host)
	v.SetDefault("rule_api.port", d.Port)
	v.SetDefault("rule_api.request_timeout", d.RequestTimeout.String())
	v.SetDefault("rule_api.max_rules_per_coach", d.MaxRulesPerCoach)
	v.SetDefault("rule_api.metrics_addr", d.MetricsAddr)
	v.SetDefault("database.url", "")

	// Bind environment variables with RK_ prefix
	v.SetEnvPrefix("RK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: reject secrets in config files
	// Secrets must be environment-only per 12-factor principles
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &RuleAPIConfig{
		Host:             v.GetString("rule_api.host"),
		Port:             v.GetInt("rule_api.port"),
		RequestTimeout:   v.GetDuration("rule_api.request_timeout"),
		MaxRulesPerCoach: v.GetInt("rule_api.max_rules_per_coach"),
		MetricsAddr:      v.GetString("rule_api.metrics_addr"),
		DatabaseURL:      v.GetString("database.url"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range and positive timeout and rule limit.
func validateConfig(cfg *RuleAPIConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxRulesPerCoach <= 0 {
		return fmt.Errorf("max_rules_per_coach must be positive, got %d", cfg.MaxRulesPerCoach)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets (12-factor principle).
// Only the file layer is inspected; RK_DATABASE_URL may carry a password.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.InConfig("database.url") {
		var fileURL string
		if db, ok := v.Get("database").(map[string]any); ok {
			fileURL, _ = db["url"].(string)
		}
		if HasPassword(fileURL) {
			return fmt.Errorf("database passwords not allowed in config files (use RK_DATABASE_URL environment variable)")
		}
	}
	return nil
}
