package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ceu-caminhodomar/portal/internal/cli/config"
	"github.com/ceu-caminhodomar/portal/internal/cli/output"
	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/sheets"
	"github.com/ceu-caminhodomar/portal/internal/summary"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Portal    *portal.Portal
	Summaries *summary.Service
	Renderer  *output.Renderer
}

// newGenerator builds the AI generator. Tests replace it.
var newGenerator = func(ctx context.Context, cfg *config.Config) (summary.Generator, error) {
	return summary.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
}

// NewCommandContext creates a CommandContext with the portal and renderer.
// It fails when no spreadsheet is configured.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cc := NewCommandContextWithoutSource(cmd)
	if err := cc.Cfg.RequireSource(); err != nil {
		return nil, err
	}

	cc.Portal = NewPortal(cc.Cfg, cc.Logger)
	cc.Summaries = NewSummaryService(cmd.Context(), cc.Cfg, cc.Logger)
	return cc, nil
}

// NewCommandContextWithoutSource creates a CommandContext without the portal.
// Useful for commands that don't read the spreadsheet.
func NewCommandContextWithoutSource(cmd *cobra.Command) *CommandContext {
	cfg := getConfig(cmd)
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewFetcher builds the spreadsheet client for cfg.
func NewFetcher(cfg *config.Config, logger *slog.Logger) *sheets.Client {
	sc := cfg.SheetsConfig()
	sc.Logger = logger
	return sheets.NewClient(sc)
}

// NewPortal builds a portal reading the configured spreadsheet.
func NewPortal(cfg *config.Config, logger *slog.Logger) *portal.Portal {
	return portal.New(NewFetcher(cfg, logger), cfg.Tabs, logger)
}

// NewSummaryService builds the summary service. Without an API key the
// service has no generator and every summary reports AI unavailable.
func NewSummaryService(ctx context.Context, cfg *config.Config, logger *slog.Logger) *summary.Service {
	opts := []summary.Option{
		summary.WithInstruction(cfg.AI.Instruction),
		summary.WithLogger(logger),
	}
	if cfg.AI.APIKey == "" {
		return summary.NewService(nil, opts...)
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		logger.Warn("AI summaries disabled", "error", err)
		return summary.NewService(nil, opts...)
	}
	return summary.NewService(gen, opts...)
}

// loadPeople loads the people dataset, turning a failure into the banner error.
func loadPeople(ctx context.Context, p *portal.Portal) error {
	if err := p.LoadOne(ctx, portal.People); err != nil {
		return fmt.Errorf("%s: %w", portal.LoadErrorText, err)
	}
	return nil
}

// getConfig returns the configuration loaded by the root command.
// Outside the root command (tests, direct use) it loads one from the
// environment and working directory.
func getConfig(cmd *cobra.Command) *config.Config {
	if cfg := config.FromContext(cmd.Context()); cfg != nil {
		return cfg
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return &config.Config{OutputFormat: config.DefaultOutput}
	}
	return cfg
}
