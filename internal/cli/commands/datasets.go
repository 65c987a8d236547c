package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ceu-caminhodomar/portal/internal/cli/output"
	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/search"
)

// FilterOptions holds options for the spaces and activities commands.
type FilterOptions struct {
	Space   string
	Day     string
	Options bool
}

// NewSpacesCommand creates the spaces command.
func NewSpacesCommand() *cobra.Command {
	return newFilterCommand(portal.Spaces, search.SpacesSpec, "Uso dos espaços", &cobra.Command{
		Use:   "spaces [term...]",
		Short: "Filter the space-usage schedule",
		Long: `Filter the space-usage tab of the spreadsheet.

The term is matched against the activity, responsible and space columns,
which are detected from the sheet headers. --space selects one space exactly
and --day keeps rows whose day column covers the given weekday.`,
		Example: `  # Everything happening in the theater
  portal spaces --space Teatro

  # Mondays, searching for "coral"
  portal spaces coral --day segunda

  # List the available spaces and days
  portal spaces --options`,
	})
}

// NewActivitiesCommand creates the activities command.
func NewActivitiesCommand() *cobra.Command {
	return newFilterCommand(portal.Activities, search.ActivitiesSpec, "Atividades", &cobra.Command{
		Use:   "activities [term...]",
		Short: "Filter the activity catalog",
		Long: `Filter the activities tab of the spreadsheet.

The term is matched against the activity, responsible and space columns,
which are detected from the sheet headers. --space selects one space exactly
and --day keeps rows whose day column covers the given weekday.`,
		Example: `  # Activities on Wednesdays
  portal activities --day quarta

  # Search by instructor
  portal activities rita -o json`,
	})
}

func newFilterCommand(kind portal.Kind, spec search.Spec, title string, cmd *cobra.Command) *cobra.Command {
	opts := &FilterOptions{}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runFilter(cmd, kind, spec, title, strings.Join(args, " "), opts)
	}

	cmd.Flags().StringVar(&opts.Space, "space", search.All, "Exact space name, or \"all\"")
	cmd.Flags().StringVar(&opts.Day, "day", search.All, "Weekday (e.g. segunda, seg), or \"all\"")
	cmd.Flags().BoolVar(&opts.Options, "options", false, "List the available spaces and days")

	_ = cmd.RegisterFlagCompletionFunc("day", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return append([]string{search.All}, search.Weekdays...), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runFilter(cmd *cobra.Command, kind portal.Kind, spec search.Spec, title, term string, opts *FilterOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	// Secondary datasets never fail the command; a failed load is logged
	// and leaves an empty dataset.
	_ = cc.Portal.LoadOne(cmd.Context(), kind)
	records := cc.Portal.Records(kind)

	if opts.Options {
		return cc.Renderer.Options(fmt.Sprintf("%s: filtros", title), output.OptionsView{
			Categories: search.Categories(records, spec),
			Days:       search.Days(records, spec),
			Weekdays:   search.Weekdays,
		})
	}

	matches := search.Filter(records, spec, search.Criteria{
		Text:     term,
		Category: opts.Space,
		Day:      opts.Day,
	})
	return cc.Renderer.Matches(title, spec, matches)
}
