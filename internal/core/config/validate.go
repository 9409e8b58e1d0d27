package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
)

// Spreadsheets the application cannot start without. The code-list files
// (language_other.xlsx, nationality.xlsx, country.xlsx) are optional and
// fall back to built-in defaults, so they only produce warnings.
var requiredAssets = []string{
	"column_name.xlsx",
	"reg_prov_dist_subdist.xlsx",
}

var optionalAssets = []string{
	"language_other.xlsx",
	"nationality.xlsx",
	"country.xlsx",
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility of the assets directory. The configPath
// argument specifies the config file location to validate (empty string
// skips the config file check). This calls Validate() first for basic
// structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("assets_dir", c.AssetsDir, isDirectory),
		c.validateRequiredAssets(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	for _, file := range optionalAssets {
		if _, err := os.Stat(c.AssetPath(file)); err != nil {
			warnings = append(warnings, ValidationWarning{
				Category: "Assets",
				Item:     file,
				Message:  "not found, built-in code list defaults will be used",
			})
		}
	}

	if c.Database.Password == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Database",
			Message:  "database.password is empty",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectory validates that a path exists and is a directory.
func isDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func (c *Config) validateRequiredAssets() error {
	var errs criterio.FieldErrorsBuilder
	for _, file := range requiredAssets {
		if _, err := os.Stat(c.AssetPath(file)); err != nil {
			errs = errs.Append("assets_dir", fmt.Errorf("required file not found: %s", file))
		}
	}
	return errs.ToError()
}
