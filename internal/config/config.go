// Package config loads monitor configuration from YAML with environment
// variable interpolation and defaults.
package config

import (
	"fmt"

	"github.com/mattjoyce/prmon/internal/links"
	"github.com/mattjoyce/prmon/internal/webhook"
)

// Config is the root configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// MonitorConfig holds the monitoring session settings.
type MonitorConfig struct {
	// Host is the bind address for the webhook server.
	Host string `yaml:"host"`

	// MaxLinkDepth bounds transitive issue link discovery.
	MaxLinkDepth int `yaml:"max_link_depth"`

	// GHPath overrides the gh binary location.
	GHPath string `yaml:"gh_path"`

	// Events are the webhook event types to subscribe to.
	Events []string `yaml:"events"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
		Monitor: MonitorConfig{
			Host:         "127.0.0.1",
			MaxLinkDepth: links.DefaultMaxDepth,
			GHPath:       "gh",
			Events:       append([]string(nil), webhook.SubscribedEvents...),
		},
	}
}

// validate performs basic validation on the configuration.
func validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Service.LogLevel] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[cfg.Service.LogFormat] {
		return fmt.Errorf("service.log_format must be one of: text, json (got %q)", cfg.Service.LogFormat)
	}

	if cfg.Monitor.MaxLinkDepth <= 0 {
		return fmt.Errorf("monitor.max_link_depth must be positive (got %d)", cfg.Monitor.MaxLinkDepth)
	}

	known := make(map[string]bool, len(webhook.SubscribedEvents))
	for _, ev := range webhook.SubscribedEvents {
		known[ev] = true
	}
	for i, ev := range cfg.Monitor.Events {
		if !known[ev] {
			return fmt.Errorf("monitor.events[%d]: unsupported event type %q", i, ev)
		}
	}

	return nil
}

// applyDefaults merges default values into cfg where not explicitly set.
func applyDefaults(cfg *Config) *Config {
	defaults := Defaults()

	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = defaults.Service.LogLevel
	}
	if cfg.Service.LogFormat == "" {
		cfg.Service.LogFormat = defaults.Service.LogFormat
	}
	if cfg.Monitor.Host == "" {
		cfg.Monitor.Host = defaults.Monitor.Host
	}
	if cfg.Monitor.MaxLinkDepth == 0 {
		cfg.Monitor.MaxLinkDepth = defaults.Monitor.MaxLinkDepth
	}
	if cfg.Monitor.GHPath == "" {
		cfg.Monitor.GHPath = defaults.Monitor.GHPath
	}
	if len(cfg.Monitor.Events) == 0 {
		cfg.Monitor.Events = defaults.Monitor.Events
	}

	return cfg
}
