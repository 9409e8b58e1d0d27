package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/piyawatc/censedit/internal/census/codelist"
	"github.com/piyawatc/censedit/internal/census/rules"
	"github.com/piyawatc/censedit/internal/data/stores"
	"github.com/piyawatc/censedit/internal/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command.
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx)
}

func (cmd *TuiCmd) run(ctx context.Context) error {
	cfg := cmd.flags.Config

	database, err := cmd.flags.OpenDB()
	if err != nil {
		return fmt.Errorf("ไม่สามารถเชื่อมต่อฐานข้อมูลได้: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	location, err := stores.NewLocationStore(cfg.AssetsDir)
	if err != nil {
		return fmt.Errorf("load area codes: %w", err)
	}

	columns, err := codelist.LoadColumnMap(cfg.AssetsDir)
	if err != nil {
		return fmt.Errorf("load column names: %w", err)
	}

	loader := codelist.NewLoader(cfg.AssetsDir, log.Logger)
	lists := loader.Load()

	ruleSet := rules.NewDefault(columns.ColumnName)
	ruleSet.ApplyCodeLists(lists.LanguageOther, lists.Nationality, lists.Country)

	deps := tui.Deps{
		Config:   cfg,
		Users:    stores.NewUserStore(database),
		Records:  stores.NewRecordStore(database, ruleSet.PKFields()),
		Location: location,
		Rules:    ruleSet,
		Columns:  columns,
		Log:      log.With().Str("component", "tui").Logger(),
	}

	m := tui.New(deps)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
