package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/ceu-caminhodomar/portal/internal/cli/output"
	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/search"
)

const shellPrompt = "portal> "

// NewShellCommand creates the interactive people-search shell.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive people search",
		Long: `Start an interactive shell over the people dataset.

Every line is a search term for the current search type. Dot-commands change
the search type, reload the spreadsheet or ask for an AI summary of a result.`,
		Example: `  portal shell
  portal> .by eol
  portal> 123
  portal> .summary 1`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	sh := newShell(cmd, cc)
	// A failed first load is shown, not fatal: .refresh can retry.
	if err := loadPeople(cmd.Context(), cc.Portal); err != nil {
		cc.Renderer.Error(err.Error())
	}

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".portal_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newShellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Portal shell. Type a term to search, .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if sh.handle(cmd.Context(), line) {
			break
		}
	}
	return nil
}

// shell holds the interactive session state. It is independent of readline
// so the line handling can be driven directly.
type shell struct {
	cmd     *cobra.Command
	cc      *CommandContext
	session *search.PeopleSession
}

func newShell(cmd *cobra.Command, cc *CommandContext) *shell {
	return &shell{cmd: cmd, cc: cc, session: search.NewPeopleSession()}
}

// handle processes one input line and reports whether the shell should exit.
func (s *shell) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, ".") {
		return s.handleDotCommand(ctx, line)
	}

	res := s.session.Submit(s.cc.Portal.Records(portal.People), s.cc.Cfg.Columns, line)
	if err := s.cc.Renderer.People(res, s.cc.Cfg.Columns); err != nil {
		s.errorf("Error: %v", err)
	}
	return false
}

func (s *shell) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	r := s.cc.Renderer

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printShellHelp(r.Writer())

	case ".by":
		if len(parts) < 2 {
			r.Println(fmt.Sprintf("Pesquisando por %s", output.SearchTypeLabel(s.session.By)))
			return false
		}
		by, err := search.ParseSearchType(parts[1])
		if err != nil {
			s.errorf("Error: %v", err)
			return false
		}
		s.session.By = by
		r.Println(fmt.Sprintf("Pesquisando por %s", output.SearchTypeLabel(by)))

	case ".refresh":
		if err := s.cc.Portal.Refresh(ctx); err != nil {
			r.Error(fmt.Sprintf("%s: %v", portal.LoadErrorText, err))
		}
		if err := r.Status(s.cc.Portal.Snapshot()); err != nil {
			s.errorf("Error: %v", err)
		}

	case ".status":
		if err := r.Status(s.cc.Portal.Snapshot()); err != nil {
			s.errorf("Error: %v", err)
		}

	case ".summary":
		if len(parts) < 2 {
			s.errorf("Usage: .summary <n>")
			return false
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			s.errorf("Usage: .summary <n>")
			return false
		}
		if !s.session.Last().Searched {
			s.errorf("Search for someone first")
			return false
		}
		if err := summarizeMatch(s.cmd, s.cc, s.session.Last(), n); err != nil {
			s.errorf("Error: %v", err)
		}

	default:
		s.errorf("Unknown command: %s (type .help for commands)", command)
	}
	return false
}

func (s *shell) errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.cc.Renderer.ErrWriter(), format+"\n", a...)
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  .help               Show this help message
  .by [type]          Show or set the search type (carteirinha, eol, nome)
  .summary <n>        AI summary of the n-th result of the last search
  .refresh            Reload every dataset from the spreadsheet
  .status             Show the dataset status
  .quit / .exit       Exit the shell

Any other line is searched in the current column.
`
	_, _ = fmt.Fprintln(w, help)
}

func newShellCompleter() *readline.PrefixCompleter {
	types := make([]readline.PrefixCompleterInterface, 0, len(search.SearchTypes))
	for _, t := range search.SearchTypes {
		types = append(types, readline.PcItem(string(t)))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".by", types...),
		readline.PcItem(".summary"),
		readline.PcItem(".refresh"),
		readline.PcItem(".status"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
