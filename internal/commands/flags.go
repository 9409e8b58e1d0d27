package commands

import (
	"os"
	"path/filepath"
	"time"

	"github.com/piyawatc/censedit/internal/core/config"
	"github.com/piyawatc/censedit/internal/data/db"
	"github.com/piyawatc/censedit/internal/data/stores"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// OpenDB connects to the configured SQL Server instance. Commands that
// need the database call this themselves so commands that do not (check,
// docs) still run when the server is unreachable.
func (f *Flags) OpenDB() (*db.DB, error) {
	return db.Open(f.dbConfig())
}

// dbConfig translates the yaml settings into connection settings. The
// config stores the connect timeout in whole seconds.
func (f *Flags) dbConfig() db.Config {
	dbc := f.Config.Database
	return db.Config{
		Host:           dbc.Host,
		Port:           dbc.Port,
		Database:       dbc.Name,
		Username:       dbc.Username,
		Password:       dbc.Password,
		ConnectTimeout: time.Duration(dbc.ConnectTimeout) * time.Second,
	}
}

// UserStore opens the user store over an established connection.
func (f *Flags) UserStore(database *db.DB) *stores.UserStore {
	return stores.NewUserStore(database)
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "censedit", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "censedit")
}
