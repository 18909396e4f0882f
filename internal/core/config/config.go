// Package config provides configuration management for rulekeeper services.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// RuleAPIConfig holds configuration for the gRPC rule API service.
type RuleAPIConfig struct {
	Host             string
	Port             int
	RequestTimeout   time.Duration
	MaxRulesPerCoach int
	// MetricsAddr is the prometheus listen address; empty disables the endpoint.
	MetricsAddr string
	DatabaseURL string
}

// DefaultRuleAPIConfig returns configuration with default values.
func DefaultRuleAPIConfig() *RuleAPIConfig {
	return &RuleAPIConfig{
		Host:             "0.0.0.0",
		Port:             50061,
		RequestTimeout:   10 * time.Second,
		MaxRulesPerCoach: 10000,
		MetricsAddr:      ":9464",
	}
}

// Addr is the gRPC listen address.
func (c *RuleAPIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HasPassword reports whether a connection URL embeds a password.
// Unparseable URLs are treated as carrying one.
func HasPassword(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	if u.User == nil {
		return false
	}
	_, set := u.User.Password()
	return set
}
