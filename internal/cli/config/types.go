// Package config provides configuration management for the portal CLI.
//
// Values are layered with koanf: built-in defaults, then an optional YAML or
// TOML file, then PORTAL_ environment variables, then explicitly set flags.
package config

import (
	"time"

	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/search"
	"github.com/ceu-caminhodomar/portal/internal/sheets"
	"github.com/ceu-caminhodomar/portal/internal/summary"
)

// Config holds all CLI configuration options.
type Config struct {
	SheetID      string               `koanf:"sheet_id" yaml:"sheet_id"`
	AccessKey    string               `koanf:"access_key" yaml:"access_key"`
	BaseURL      string               `koanf:"base_url" yaml:"base_url"`
	Timeout      time.Duration        `koanf:"timeout" yaml:"timeout"`
	Tabs         portal.Tabs          `koanf:"tabs" yaml:"tabs"`
	Columns      search.ColumnMapping `koanf:"columns" yaml:"columns"`
	AI           AIConfig             `koanf:"ai" yaml:"ai"`
	Server       ServerConfig         `koanf:"server" yaml:"server"`
	Demo         bool                 `koanf:"demo" yaml:"demo"`
	Verbose      bool                 `koanf:"verbose" yaml:"verbose"`
	OutputFormat string               `koanf:"output" yaml:"output"`
	LogLevel     string               `koanf:"log_level" yaml:"log_level"`

	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-" yaml:"-"`
}

// AIConfig configures the record summary generator.
type AIConfig struct {
	APIKey      string `koanf:"api_key" yaml:"api_key"`
	Model       string `koanf:"model" yaml:"model"`
	Instruction string `koanf:"instruction" yaml:"instruction"`
}

// ServerConfig holds configuration for the HTTP API server.
type ServerConfig struct {
	Port          int    `koanf:"port" yaml:"port"`
	Watch         bool   `koanf:"watch" yaml:"watch"`
	SessionSecret string `koanf:"session_secret" yaml:"session_secret"`
}

// SheetsConfig returns the spreadsheet client settings.
func (c *Config) SheetsConfig() sheets.Config {
	return sheets.Config{
		SheetID:   c.SheetID,
		AccessKey: c.AccessKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
	}
}

// Redacted returns a copy with secrets masked, for display.
func (c Config) Redacted() Config {
	c.AccessKey = redact(c.AccessKey)
	c.AI.APIKey = redact(c.AI.APIKey)
	c.Server.SessionSecret = redact(c.Server.SessionSecret)
	return c
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

// Default configuration values. No spreadsheet id or credential has a default.
const (
	DefaultPeopleTab     = "Página1"
	DefaultSpacesTab     = "Espaços"
	DefaultActivitiesTab = "Atividades"
	DefaultCarteirinha   = "CARTEIRINHA"
	DefaultEOL           = "CÓDIGO EOL"
	DefaultNome          = "NOME DO ALUNO"
	DefaultPort          = 8080
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel      = "warn"
)

// Demo preset: Google's public sample spreadsheet.
const (
	DemoSheetID = "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"
	DemoTab     = "Class Data"
)

// defaults returns the flattened default values.
func defaults() map[string]any {
	return map[string]any{
		"base_url":            sheets.DefaultBaseURL,
		"timeout":             sheets.DefaultTimeout.String(),
		"tabs.people":         DefaultPeopleTab,
		"tabs.spaces":         DefaultSpacesTab,
		"tabs.activities":     DefaultActivitiesTab,
		"columns.carteirinha": DefaultCarteirinha,
		"columns.eol":         DefaultEOL,
		"columns.nome":        DefaultNome,
		"ai.model":            summary.DefaultModel,
		"ai.instruction":      summary.DefaultInstruction,
		"server.port":         DefaultPort,
		"server.watch":        true,
		"verbose":             false,
		"output":              DefaultOutput,
		"log_level":           DefaultLogLevel,
	}
}

// demoPreset mirrors the sample sheet layout onto the portal settings.
func demoPreset() map[string]any {
	return map[string]any{
		"sheet_id":            DemoSheetID,
		"tabs.people":         DemoTab,
		"tabs.spaces":         DemoTab,
		"tabs.activities":     DemoTab,
		"columns.carteirinha": "Student Name",
		"columns.eol":         "Major",
		"columns.nome":        "Student Name",
	}
}
