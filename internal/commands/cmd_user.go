package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type UserCmd struct {
	flags *Flags

	username string
	fullname string
	password string
}

// NewUserCmd creates the user management command.
func NewUserCmd(flags *Flags) *UserCmd {
	return &UserCmd{flags: flags}
}

// Register adds the user command to the application.
func (cmd *UserCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "user",
		Usage: "Manage editor accounts",
		Description: `User commands manage the accounts stored in the edit_user table.

Passwords are stored bcrypt-hashed. The built-in admin account is managed
outside of these commands and cannot be reset here.`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.changePasswordCmd(),
			cmd.resetPasswordCmd(),
		},
	})
	return app
}

func (cmd *UserCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a new editor account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Usage:       "login name (max 8 characters)",
				Destination: &cmd.username,
			},
			&cli.StringFlag{
				Name:        "fullname",
				Aliases:     []string{"n"},
				Usage:       "display name stamped into edited rows",
				Destination: &cmd.fullname,
			},
		},
		Action: cmd.runAdd,
	}
}

func (cmd *UserCmd) changePasswordCmd() *cli.Command {
	return &cli.Command{
		Name:      "change-password",
		Usage:     "Change an account password",
		ArgsUsage: "<username>",
		Action:    cmd.runChangePassword,
	}
}

func (cmd *UserCmd) runChangePassword(ctx context.Context, c *cli.Command) error {
	username := strings.TrimSpace(c.Args().First())
	if username == "" {
		return fmt.Errorf("usage: censedit user change-password <username>")
	}

	var current, next, confirm string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current password").
				EchoMode(huh.EchoModePassword).
				Value(&current),
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Validate(required("password")).
				Value(&next),
			huh.NewInput().
				Title("Confirm new password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if next != confirm {
		return fmt.Errorf("รหัสผ่านใหม่ไม่ตรงกัน")
	}

	database, err := cmd.flags.OpenDB()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close() }()

	users := cmd.flags.UserStore(database)
	if _, err := users.Authenticate(ctx, username, current); err != nil {
		return err
	}
	if err := users.UpdatePassword(ctx, username, next); err != nil {
		return err
	}

	log.Info().Str("username", username).Msg("password changed")
	fmt.Fprintf(c.Root().Writer, "เปลี่ยนรหัสผ่านของ %s เรียบร้อยแล้ว\n", username)
	return nil
}

func (cmd *UserCmd) resetPasswordCmd() *cli.Command {
	return &cli.Command{
		Name:      "reset-password",
		Usage:     "Reset an account password to its username",
		ArgsUsage: "<username>",
		Action:    cmd.runResetPassword,
	}
}

func (cmd *UserCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if cmd.username == "" || cmd.fullname == "" {
		if err := cmd.addForm(); err != nil {
			return err
		}
	} else if err := cmd.passwordForm(); err != nil {
		return err
	}

	database, err := cmd.flags.OpenDB()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close() }()

	users := cmd.flags.UserStore(database)
	if err := users.AddUser(ctx, cmd.username, cmd.password, cmd.fullname); err != nil {
		return err
	}

	log.Info().Str("username", cmd.username).Msg("user created")
	fmt.Fprintf(c.Root().Writer, "เพิ่มผู้ใช้ %s เรียบร้อยแล้ว\n", cmd.username)
	return nil
}

func (cmd *UserCmd) runResetPassword(ctx context.Context, c *cli.Command) error {
	username := strings.TrimSpace(c.Args().First())
	if username == "" {
		return fmt.Errorf("usage: censedit user reset-password <username>")
	}

	database, err := cmd.flags.OpenDB()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close() }()

	users := cmd.flags.UserStore(database)
	if err := users.ResetPasswordToUsername(ctx, username); err != nil {
		return err
	}

	log.Info().Str("username", username).Msg("password reset")
	fmt.Fprintf(c.Root().Writer, "รีเซ็ตรหัสผ่านของ %s เป็นชื่อผู้ใช้แล้ว\n", username)
	return nil
}

func (cmd *UserCmd) addForm() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Description("Login name, max 8 characters").
				Validate(validateUsername).
				Value(&cmd.username),
			huh.NewInput().
				Title("Full name").
				Description("Stamped into edited rows as fullname").
				Validate(required("full name")).
				Value(&cmd.fullname),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(required("password")).
				Value(&cmd.password),
		),
	).Run()
}

func (cmd *UserCmd) passwordForm() error {
	return huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Validate(required("password")).
		Value(&cmd.password).
		Run()
}

func validateUsername(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("username is required")
	}
	if len(s) > 8 {
		return fmt.Errorf("username must be at most 8 characters")
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
