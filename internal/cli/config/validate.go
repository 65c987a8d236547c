package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSource is returned when a command needs the spreadsheet but no id is set.
var ErrNoSource = errors.New("no spreadsheet configured")

var validOutputs = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
// A missing sheet id is not an error here so that help and config commands work.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	for name, tab := range map[string]string{
		"tabs.people":     c.Tabs.People,
		"tabs.spaces":     c.Tabs.Spaces,
		"tabs.activities": c.Tabs.Activities,
	} {
		if strings.TrimSpace(tab) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	if c.Columns.Carteirinha == "" || c.Columns.EOL == "" || c.Columns.Nome == "" {
		return fmt.Errorf("columns.carteirinha, columns.eol and columns.nome are required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if !validOutput(c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected %s)", c.OutputFormat, strings.Join(validOutputs, "|"))
	}
	return nil
}

// RequireSource checks that a spreadsheet id is configured.
func (c *Config) RequireSource() error {
	if strings.TrimSpace(c.SheetID) == "" {
		return fmt.Errorf("%w\nHint: set sheet_id in portal.yaml, PORTAL_SHEET_ID or --sheet-id (or try --demo)", ErrNoSource)
	}
	return nil
}

func validOutput(s string) bool {
	if s == "" {
		return true
	}
	for _, v := range validOutputs {
		if s == v {
			return true
		}
	}
	return false
}
