package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/piyawatc/censedit/internal/core/styles"
)

type CheckCmd struct {
	flags *Flags
}

// NewCheckCmd creates the environment check command.
func NewCheckCmd(flags *Flags) *CheckCmd {
	return &CheckCmd{flags: flags}
}

// Register adds the check command to the application.
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "check",
		Usage: "Validate configuration, assets, and database connectivity",
		Description: `Check verifies that censedit can start: the config file parses, the
required spreadsheets exist under the assets directory, and the SQL
Server instance accepts connections.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	w := c.Root().Writer
	failed := false

	if err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		printFail(w, "config", err)
		failed = true
	} else {
		printOK(w, "config", "configuration and assets are valid")
	}

	for _, warning := range cmd.flags.Config.Warnings() {
		item := warning.Category
		if warning.Item != "" {
			item += "/" + warning.Item
		}
		fmt.Fprintf(w, "  %s %s: %s\n", styles.HelpText.Render("!"), item, warning.Message)
	}

	if err := cmd.checkDatabase(ctx, w); err != nil {
		failed = true
	}

	if failed {
		return fmt.Errorf("checks failed")
	}
	return nil
}

func (cmd *CheckCmd) checkDatabase(ctx context.Context, w io.Writer) error {
	database, err := cmd.flags.OpenDB()
	if err != nil {
		printFail(w, "database", err)
		return err
	}
	defer func() { _ = database.Close() }()

	var records int
	if err := database.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM r_alldata_edit").Scan(&records); err != nil {
		printFail(w, "database", fmt.Errorf("query r_alldata_edit: %w", err))
		return err
	}

	var users int
	if err := database.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM edit_user").Scan(&users); err != nil {
		printFail(w, "database", fmt.Errorf("query edit_user: %w", err))
		return err
	}

	printOK(w, "database", fmt.Sprintf("connected: %d records, %d users", records, users))
	return nil
}

func printOK(w io.Writer, name, msg string) {
	fmt.Fprintf(w, "%s %s: %s\n", styles.SuccessText.Render("✓"), name, msg)
}

func printFail(w io.Writer, name string, err error) {
	fmt.Fprintf(w, "%s %s: %v\n", styles.ErrorText.Render("✗"), name, err)
}
