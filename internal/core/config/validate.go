package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility and dataset resolution. The configPath argument specifies
// the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		criterio.Run("dataset", c.Dataset, datasetResolves),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	for _, theme := range []quiz.Theme{quiz.ThemeLight, quiz.ThemeDark} {
		name := c.PaletteName(theme)
		p, ok := styles.GetPalette(name)
		switch {
		case !ok:
			warnings = append(warnings, ValidationWarning{
				Category: "Palettes",
				Item:     string(theme),
				Message:  fmt.Sprintf("unknown palette %q, using the built-in default", name),
			})
		case p.Light != (theme == quiz.ThemeLight):
			warnings = append(warnings, ValidationWarning{
				Category: "Palettes",
				Item:     string(theme),
				Message:  fmt.Sprintf("palette %q is not a %s palette, using the built-in default", name, theme),
			})
		}
	}

	for _, key := range sortedKeys(c.Keybindings) {
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' && c.Keybindings[key] != ActionNone {
			warnings = append(warnings, ValidationWarning{
				Category: "Keybindings",
				Item:     key,
				Message:  "digit keys select choices directly; this binding takes precedence",
			})
		}
	}

	return warnings
}

// validateFileAccess checks config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
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

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// datasetResolves validates that a dataset path or glob names at least one
// existing file.
func datasetResolves(source string) error {
	if source == "" {
		return nil // bundled sample
	}

	if !strings.ContainsAny(source, "*?[{") {
		info, err := os.Stat(source)
		if err != nil {
			return fmt.Errorf("cannot access: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory, use a glob such as %s/*.json", source, source)
		}
		return nil
	}

	if !doublestar.ValidatePathPattern(source) {
		return fmt.Errorf("invalid glob pattern %q", source)
	}

	matches, err := doublestar.FilepathGlob(source, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("expand glob: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("pattern %q matched no files", source)
	}
	return nil
}
