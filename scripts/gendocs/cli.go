package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ceu-caminhodomar/portal/internal/cli"
	"github.com/ceu-caminhodomar/portal/internal/cli/config"
	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/search"
)

// page is one generated markdown file.
type page struct {
	name string
	body []byte
}

// generateCLIDocs writes the CLI reference into outDir and returns the file
// names it wrote.
func generateCLIDocs(outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := []page{
		{name: "index.md", body: indexPage(root)},
		{name: "configuration.md", body: configurationPage()},
	}
	for _, cmd := range documented(root) {
		pages = append(pages, page{name: pageName(cmd) + ".md", body: commandPage(cmd)})
	}

	written := make([]string, 0, len(pages))
	for _, p := range pages {
		if err := os.WriteFile(filepath.Join(outDir, p.name), p.body, 0o600); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", p.name, err)
		}
		written = append(written, p.name)
	}
	return written, nil
}

// documented returns every visible command below root, subcommands included.
func documented(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if !cmd.IsAvailableCommand() || cmd.Name() == "help" {
			continue
		}
		out = append(out, cmd)
		out = append(out, documented(cmd)...)
	}
	return out
}

// pageName turns "portal config show" into "config-show".
func pageName(cmd *cobra.Command) string {
	path := strings.Fields(cmd.CommandPath())
	return strings.Join(path[1:], "-")
}

func indexPage(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for portal")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/ceu-caminhodomar/portal/cmd/portal@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documented(root) {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(strings.TrimPrefix(cmd.CommandPath(), "portal ")), pageName(cmd)),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Datasets")
	w.Paragraph("Each dataset is read from its own spreadsheet tab. A failed people tab is an error; a failed spaces or activities tab shows as empty with a warning.")
	keys := keyIndex()
	rows = nil
	for _, k := range portal.Kinds {
		tab := keys["tabs."+string(k)]
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(string(k)), k),
			InlineCode(tab.Name),
			InlineCode(fmt.Sprint(tab.Default)),
		})
	}
	w.Table([]string{"Dataset", "Tab key", "Default tab"}, rows)

	w.Header(2, "People search types")
	rows = nil
	for _, t := range search.SearchTypes {
		col := keys["columns."+string(t)]
		rows = append(rows, []string{InlineCode(string(t)), InlineCode(col.Name), InlineCode(fmt.Sprint(col.Default))})
	}
	w.Table([]string{"--by", "Column key", "Default header"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error, printed on stderr"},
	})
	return w.Bytes()
}

func configurationPage() []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "Configuration keys and environment variables for portal")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf(
		"Settings are layered: defaults, then %s (or %s), then %s variables, then flags. %s replaces the spreadsheet settings with the public demo sheet. There is no default spreadsheet id or key.",
		InlineCode("portal.yaml"), InlineCode("portal.toml"), InlineCode(config.EnvPrefix), InlineCode("--demo")))

	var rows [][]string
	for _, k := range config.Keys() {
		def := "-"
		switch {
		case k.Secret:
			def = "secret"
		case shortDefault(k):
			def = InlineCode(fmt.Sprint(k.Default))
		}
		rows = append(rows, []string{InlineCode(k.Name), InlineCode(k.Env), def, k.Description})
	}
	w.Table([]string{"Key", "Environment", "Default", "Description"}, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", exampleYAML())
	return w.Bytes()
}

// exampleYAML renders the short defaults as a nested portal.yaml.
func exampleYAML() string {
	doc := map[string]any{"sheet_id": "<spreadsheet id>", "access_key": "${SHEETS_API_KEY}"}
	for _, k := range config.Keys() {
		if k.Secret || !shortDefault(k) {
			continue
		}
		node := doc
		parts := strings.Split(k.Name, ".")
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = k.Default
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err.Error()
	}
	return string(out)
}

// shortDefault reports whether a default fits in a table cell. The prompt
// instruction does not.
func shortDefault(k config.Key) bool {
	if k.Default == nil {
		return false
	}
	s := fmt.Sprint(k.Default)
	return s != "" && len(s) <= 60 && !strings.Contains(s, "\n")
}

func keyIndex() map[string]config.Key {
	idx := make(map[string]config.Key)
	for _, k := range config.Keys() {
		idx[k.Name] = k
	}
	return idx
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.CommandPath(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.CommandPath())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				rows = append(rows, []string{fmt.Sprintf("[%s](/cli/%s)", InlineCode(sub.Name()), pageName(sub)), cleanDescription(sub.Short)})
			}
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}

	w.Paragraph("Global options are listed in the [CLI reference](/cli/index). Settings can also come from the [configuration](/cli/configuration).")
	return w.Bytes()
}

// writeFlagsTable writes one row per visible flag.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := "-"
		if f.DefValue != "" && f.DefValue != "[]" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{name, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Default", "Description"}, rows)
}

// cleanExample strips the indentation shared by every non-blank line.
func cleanExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")
	indent, found := "", false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found || len(lead) < len(indent) {
			indent, found = lead, true
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
