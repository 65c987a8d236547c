package config

import (
	"reflect"
	"strings"
)

// Key describes one configuration key.
type Key struct {
	Name        string // dotted koanf path, e.g. tabs.people
	Env         string // environment variable that sets it
	Default     any    // nil when the key has no default
	Secret      bool
	Description string
}

var secretKeys = map[string]bool{
	"access_key":            true,
	"ai.api_key":            true,
	"server.session_secret": true,
}

var keyDescriptions = map[string]string{
	"sheet_id":              "Spreadsheet id",
	"access_key":            "Spreadsheet API key",
	"base_url":              "Sheets API base URL",
	"timeout":               "Per-request timeout for spreadsheet fetches",
	"tabs.people":           "Tab holding the people records",
	"tabs.spaces":           "Tab holding the space schedule",
	"tabs.activities":       "Tab holding the activities",
	"columns.carteirinha":   "Header searched by card number",
	"columns.eol":           "Header searched by EOL code",
	"columns.nome":          "Header searched by name",
	"ai.api_key":            "Gemini API key; summaries are disabled without it",
	"ai.model":              "Gemini model",
	"ai.instruction":        "Instruction placed before the record in the summary prompt",
	"server.port":           "API server port",
	"server.watch":          "Reload when the config file changes",
	"server.session_secret": "Cookie signing key; random per process when empty",
	"demo":                  "Use the public demo spreadsheet",
	"verbose":               "Debug logging",
	"output":                "Output format (auto|text|markdown|json)",
	"log_level":             "Log level (debug|info|warn|error)",
}

// Keys lists every configuration key in Config field order.
func Keys() []Key {
	defs := defaults()
	var keys []Key
	walkKoanfTags(reflect.TypeOf(Config{}), "", func(name string) {
		k := Key{
			Name:        name,
			Env:         EnvVar(name),
			Default:     defs[name],
			Secret:      secretKeys[name],
			Description: keyDescriptions[name],
		}
		keys = append(keys, k)
	})
	return keys
}

// EnvVar returns the environment variable for a dotted key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

func walkKoanfTags(t reflect.Type, prefix string, fn func(string)) {
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		name := prefix + tag
		if f.Type.Kind() == reflect.Struct {
			walkKoanfTags(f.Type, name+".", fn)
			continue
		}
		fn(name)
	}
}
