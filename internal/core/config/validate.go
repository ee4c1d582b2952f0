package config

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/bitext/internal/core/annotate"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility and the editor executable. The configPath
// argument specifies the config file location to validate (empty string skips
// config file check). This calls Validate() first for basic structural
// validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateKeys(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	bound := make(map[string]bool, len(c.Keybindings))
	for _, kb := range c.Keybindings {
		bound[kb.Action] = true
	}

	required := []string{ActionRetokenize, ActionHelp, ActionDiscard}
	for _, a := range annotate.Actions() {
		required = append(required, a.String())
	}

	for _, name := range required {
		if !bound[name] {
			warnings = append(warnings, ValidationWarning{
				Category: "Keybindings",
				Item:     name,
				Message:  "action has no key bound",
			})
		}
	}

	return warnings
}

// validateFileAccess checks config file, data directory, and editor executable.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("editor", c.Editor, editorExecutableExists),
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

// editorExecutableExists validates that the first word of the editor command
// is executable. An empty editor falls back to the environment at run time.
func editorExecutableExists(command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	if _, err := exec.LookPath(fields[0]); err != nil {
		return fmt.Errorf("executable not found: %s", fields[0])
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

// validateKeys rejects key names that cannot be produced by a terminal key
// press, such as names containing whitespace.
func (c *Config) validateKeys() error {
	var errs criterio.FieldErrorsBuilder

	keys := make([]string, 0, len(c.Keybindings))
	for k := range c.Keybindings {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		field := fmt.Sprintf("keybindings[%q]", k)
		switch {
		case k == "":
			errs = errs.Append(field, fmt.Errorf("key cannot be empty"))
		case strings.ContainsAny(k, " \t\n"):
			errs = errs.Append(field, fmt.Errorf("key cannot contain whitespace, use \"space\""))
		case strings.HasSuffix(k, "+"):
			errs = errs.Append(field, fmt.Errorf("modifier without key"))
		}
	}

	return errs.ToError()
}
