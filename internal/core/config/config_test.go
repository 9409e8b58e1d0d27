package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  name: census
  username: editor
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 1433, cfg.Database.Port)
	assert.Equal(t, 5, cfg.Database.ConnectTimeout)
	assert.Equal(t, "assets", cfg.AssetsDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.example.test
  port: 11433
  name: census
  username: editor
  password: secret
assets_dir: /srv/census/assets
log_level: debug
`)

	cfg, err := Load(path, "/tmp/data")
	require.NoError(t, err)

	assert.Equal(t, "db.example.test", cfg.Database.Host)
	assert.Equal(t, 11433, cfg.Database.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "/srv/census/assets", cfg.AssetsDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/data", cfg.DataDir)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"), "/tmp/data")

	// defaults alone fail structural validation: no database name
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.DataDir = "/tmp/data"
		cfg.Database.Name = "census"
		cfg.Database.Username = "editor"
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		cfg := base()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing database name", func(t *testing.T) {
		cfg := base()
		cfg.Database.Name = ""
		assert.ErrorContains(t, cfg.Validate(), "database.name")
	})

	t.Run("missing username", func(t *testing.T) {
		cfg := base()
		cfg.Database.Username = ""
		assert.ErrorContains(t, cfg.Validate(), "database.username")
	})

	t.Run("port out of range", func(t *testing.T) {
		cfg := base()
		cfg.Database.Port = 70000
		assert.ErrorContains(t, cfg.Validate(), "database.port")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := base()
		cfg.LogLevel = "loud"
		assert.ErrorContains(t, cfg.Validate(), "log_level")
	})
}

func TestValidateDeep(t *testing.T) {
	newAssets := func(t *testing.T, files ...string) string {
		t.Helper()
		dir := t.TempDir()
		for _, f := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644))
		}
		return dir
	}

	base := func(assetsDir string) Config {
		cfg := DefaultConfig()
		cfg.DataDir = "/tmp/data"
		cfg.Database.Name = "census"
		cfg.Database.Username = "editor"
		cfg.AssetsDir = assetsDir
		return cfg
	}

	t.Run("all required assets present", func(t *testing.T) {
		cfg := base(newAssets(t, "column_name.xlsx", "reg_prov_dist_subdist.xlsx"))
		assert.NoError(t, cfg.ValidateDeep(""))
	})

	t.Run("missing required asset", func(t *testing.T) {
		cfg := base(newAssets(t, "column_name.xlsx"))
		assert.ErrorContains(t, cfg.ValidateDeep(""), "reg_prov_dist_subdist.xlsx")
	})

	t.Run("assets dir missing", func(t *testing.T) {
		cfg := base(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, cfg.ValidateDeep(""))
	})
}

func TestWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/tmp/data"
	cfg.Database.Name = "census"
	cfg.Database.Username = "editor"
	cfg.AssetsDir = t.TempDir()

	warnings := cfg.Warnings()

	// three optional code-list files plus the empty password
	assert.Len(t, warnings, 4)
}

func TestLogFile(t *testing.T) {
	cfg := Config{DataDir: "/tmp/data"}
	assert.Equal(t, filepath.Join("/tmp/data", "censedit.log"), cfg.LogFile())
}
