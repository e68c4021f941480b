package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate returns an error describing every invalid setting.
func (c Config) Validate() error {
	var errs []error
	for _, v := range c.Check() {
		if v.Level == "error" {
			errs = append(errs, errors.New(v.Message))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Check runs all validations and returns structured results.
func (c Config) Check() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateTimeout()...)
	results = append(results, c.validateMenu()...)
	results = append(results, c.validateVersion()...)
	return results
}

func (c Config) validateTimeout() []ValidationResult {
	if c.TimeoutSeconds < 0 {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("timeout_seconds must be positive, got %d", c.TimeoutSeconds),
		}}
	}
	return nil
}

func (c Config) validateMenu() []ValidationResult {
	var results []ValidationResult
	if strings.TrimSpace(c.MenuLabel) == "" {
		results = append(results, ValidationResult{Level: "error", Message: "menu_label must not be blank"})
	}
	if strings.ContainsAny(c.Verb, `\/`) || strings.TrimSpace(c.Verb) == "" {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("verb %q must be a single registry key name", c.Verb),
		})
	}
	if len(c.FileClasses) == 0 {
		results = append(results, ValidationResult{Level: "error", Message: "file_classes must list at least one class"})
	}
	seen := map[string]bool{}
	for _, class := range c.FileClasses {
		key := strings.ToLower(strings.TrimSpace(class))
		switch {
		case key == "":
			results = append(results, ValidationResult{Level: "error", Message: "file_classes contains a blank entry"})
		case strings.Contains(key, `\`):
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("file class %q must not contain a backslash", class),
			})
		case seen[key]:
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("file class %q listed more than once", class),
			})
		}
		seen[key] = true
	}
	switch c.Language {
	case LanguageAuto, LanguageEnglish, LanguageChinese:
	default:
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("unknown language %q, falling back to auto", c.Language),
		})
	}
	return results
}

func (c Config) validateVersion() []ValidationResult {
	if _, err := semver.NewVersion(c.MinAntVersion); err != nil {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("min_ant_version %q is not a version: %v", c.MinAntVersion, err),
		}}
	}
	return nil
}
