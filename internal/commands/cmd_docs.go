package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
)

type DocsCmd struct {
	flags *Flags
	plain bool
}

// NewDocsCmd creates the documentation command.
func NewDocsCmd(flags *Flags) *DocsCmd {
	return &DocsCmd{flags: flags}
}

// Register adds the docs command to the application.
func (cmd *DocsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "docs",
		Usage: "Show the editor user guide",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print raw markdown without terminal rendering",
				Destination: &cmd.plain,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DocsCmd) run(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer

	if cmd.plain {
		fmt.Fprint(w, userGuide)
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(userGuide)
	if err != nil {
		return fmt.Errorf("render guide: %w", err)
	}

	fmt.Fprint(w, out)
	return nil
}

const userGuide = `# Censedit User Guide

Censedit edits census records in the ` + "`r_alldata_edit`" + ` table over a
terminal interface.

## Starting

Run ` + "`censedit`" + ` with no arguments. Log in with your editor account.
The admin account additionally unlocks the user management screen.

## Searching

Pick at least one search criterion and press enter. The top row selects
the named area (region, province, district, subdistrict); tab moves to
the detail row (enumeration area, building, household, member), whose
choices load from the data itself and always include an explicit blank
option for records missing that value. Results load 500 rows per page;
use the paging keys to move between pages.

## Editing

| Key | Action |
|-----|--------|
| arrow keys | move between cells |
| enter | edit the selected cell |
| esc | cancel the cell edit |
| ctrl+s | save all pending edits |
| ctrl+f | filter by the selected column |
| ctrl+l | clear search and filters |

Edited cells are highlighted until saved. Primary-key columns and the
name columns are read-only and shown dimmed.

## Saving

Saving validates every pending edit first. If any value fails
validation, nothing is written and the problems are listed with their
row numbers. A successful save stamps your full name and the save time
into each edited row, all in one transaction.

## Filters

Column filters narrow the rows on the current page only. Pending edits
are kept when filters change; clearing a filter brings the edited rows
back with their highlights.

## Accounts

` + "```" + `
censedit user add
censedit user reset-password <username>
` + "```" + `

Passwords are stored bcrypt-hashed. Resetting sets the password back to
the username; the admin account cannot be reset this way.
`
