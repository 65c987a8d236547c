package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/search"
	"github.com/ceu-caminhodomar/portal/internal/summary"
)

// SummaryOptions holds options for the summary command.
type SummaryOptions struct {
	By    string
	Index int
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	opts := &SummaryOptions{}

	cmd := &cobra.Command{
		Use:   "summary <term...>",
		Short: "Write an AI summary of one person",
		Long: `Search the people tab and ask the AI model for a short summary of one match.

The prompt carries every non-empty column of the selected record. When the AI
is not configured (ai.api_key) or the request fails, an explanatory message is
printed in place of the summary.`,
		Example: `  # Summarize the first match for "ana"
  portal summary ana

  # Summarize the second match of an EOL search
  portal summary --by eol 12 --index 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.By, "by", string(search.ByNome), "Search type (carteirinha|eol|nome)")
	cmd.Flags().IntVar(&opts.Index, "index", 1, "Which match to summarize (1-based)")
	registerSearchTypeCompletion(cmd)

	return cmd
}

func runSummary(cmd *cobra.Command, term string, opts *SummaryOptions) error {
	by, err := search.ParseSearchType(opts.By)
	if err != nil {
		return err
	}

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if err := loadPeople(cmd.Context(), cc.Portal); err != nil {
		return err
	}

	res := search.SearchPeople(cc.Portal.Records(portal.People), cc.Cfg.Columns, by, term)
	if !res.Searched {
		return errors.New("a search term is required")
	}
	return summarizeMatch(cmd, cc, res, opts.Index)
}

// summarizeMatch prints the summary of the n-th (1-based) match of res.
// AI failures are reported inline, never as command errors.
func summarizeMatch(cmd *cobra.Command, cc *CommandContext, res search.PersonResult, n int) error {
	if len(res.Matches) == 0 {
		return fmt.Errorf("no match for %q", res.Term)
	}
	if n < 1 || n > len(res.Matches) {
		return fmt.Errorf("index %d out of range (1-%d)", n, len(res.Matches))
	}

	rec := res.Matches[n-1].Record
	text, err := cc.Summaries.Summarize(cmd.Context(), rec)
	if err != nil {
		cc.Logger.Warn("summary unavailable", "error", err)
	}
	return cc.Renderer.Summary(search.PersonTitle(rec, cc.Cfg.Columns), summary.Inline(text, err))
}
