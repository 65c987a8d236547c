package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/search"
)

// PeopleOptions holds options for the people command.
type PeopleOptions struct {
	By string
}

// NewPeopleCommand creates the people command.
func NewPeopleCommand() *cobra.Command {
	opts := &PeopleOptions{}

	cmd := &cobra.Command{
		Use:   "people [term...]",
		Short: "Search people by name, EOL code or card number",
		Long: `Search the people tab of the spreadsheet.

The selected column (--by) is located by exact header name, as configured in
columns.nome, columns.eol and columns.carteirinha, and matched against the
term case-insensitively. Running without a term performs no search.`,
		Example: `  # Search by name (default)
  portal people ana

  # Search by EOL code
  portal people --by eol 123

  # JSON output
  portal people "ana silva" -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeople(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.By, "by", string(search.ByNome), "Search type (carteirinha|eol|nome)")
	registerSearchTypeCompletion(cmd)

	return cmd
}

func runPeople(cmd *cobra.Command, term string, opts *PeopleOptions) error {
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
	return cc.Renderer.People(res, cc.Cfg.Columns)
}

func registerSearchTypeCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("by", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(search.SearchTypes))
		for _, t := range search.SearchTypes {
			names = append(names, string(t))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}
