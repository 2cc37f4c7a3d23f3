package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateConverter(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.BaseDir) == "" {
		return errors.New("paths.base_dir must be set")
	}
	if c.Paths.InputDir == c.Paths.OutputDir {
		return errors.New("paths.input_dir and paths.output_dir must differ")
	}
	return nil
}

func (c *Config) validateConverter() error {
	if strings.TrimSpace(c.Converter.Binary) == "" {
		return errors.New("converter.binary must be set")
	}
	if err := validateExtension("converter.source_extension", c.Converter.SourceExtension); err != nil {
		return err
	}
	if err := validateExtension("converter.target_extension", c.Converter.TargetExtension); err != nil {
		return err
	}
	if c.Converter.SourceExtension == c.Converter.TargetExtension {
		return errors.New("converter.source_extension and converter.target_extension must differ")
	}
	return ensurePositive(
		positiveField{"converter.timeout_seconds", c.Converter.TimeoutSeconds},
		positiveField{"converter.probe_timeout_seconds", c.Converter.ProbeTimeoutSeconds},
		positiveField{"converter.error_snippet_length", c.Converter.ErrorSnippetLength},
	)
}

func (c *Config) validateImport() error {
	if c.Import.PreviewLimit <= 0 {
		return errors.New("import.preview_limit must be positive")
	}
	return nil
}

func (c *Config) validateDisplay() error {
	if err := ensurePositive(
		positiveField{"display.log_lines", c.Display.LogLines},
		positiveField{"display.bar_width", c.Display.BarWidth},
	); err != nil {
		return err
	}
	switch c.Display.Color {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("display.color must be one of auto, always, never (got %q)", c.Display.Color)
	}
}

func validateExtension(key, ext string) error {
	if ext == "" {
		return fmt.Errorf("%s must be set", key)
	}
	if strings.ContainsAny(ext, `/\`) || strings.ContainsRune(ext, '.') {
		return fmt.Errorf("%s must be a bare extension such as \"epub\" (got %q)", key, ext)
	}
	return nil
}

type positiveField struct {
	key   string
	value int
}

// ensurePositive reports the first non-positive field in argument order.
func ensurePositive(fields ...positiveField) error {
	for _, f := range fields {
		if f.value <= 0 {
			return fmt.Errorf("%s must be positive", f.key)
		}
	}
	return nil
}
