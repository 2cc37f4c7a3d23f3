package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConverter()
	c.normalizeDisplay()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(envBaseDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.BaseDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.BaseDir) == "" {
		c.Paths.BaseDir = defaultBaseDir
	}
	var err error
	if c.Paths.BaseDir, err = expandPath(strings.TrimSpace(c.Paths.BaseDir)); err != nil {
		return fmt.Errorf("paths.base_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		c.Paths.InputDir = filepath.Join(c.Paths.BaseDir, defaultInputSubdir)
	}
	if c.Paths.InputDir, err = expandPath(strings.TrimSpace(c.Paths.InputDir)); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = filepath.Join(c.Paths.BaseDir, defaultOutputSubdir)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeConverter() {
	if value, ok := os.LookupEnv(envConverterBinary); ok && strings.TrimSpace(value) != "" {
		c.Converter.Binary = value
	}
	c.Converter.Binary = strings.TrimSpace(c.Converter.Binary)
	if c.Converter.Binary == "" {
		c.Converter.Binary = defaultConverterBinary
	}
	c.Converter.SourceExtension = normalizeExtension(c.Converter.SourceExtension)
	c.Converter.TargetExtension = normalizeExtension(c.Converter.TargetExtension)
	if c.Converter.ProbeTimeoutSeconds <= 0 {
		c.Converter.ProbeTimeoutSeconds = defaultProbeTimeout
	}
	if c.Converter.ErrorSnippetLength <= 0 {
		c.Converter.ErrorSnippetLength = defaultErrorSnippetLength
	}
	c.Converter.InstallHint = strings.TrimSpace(c.Converter.InstallHint)
	if c.Converter.InstallHint == "" {
		c.Converter.InstallHint = defaultInstallHint
	}
	if len(c.Converter.ExtraArgs) > 0 {
		args := make([]string, 0, len(c.Converter.ExtraArgs))
		for _, arg := range c.Converter.ExtraArgs {
			if trimmed := strings.TrimSpace(arg); trimmed != "" {
				args = append(args, trimmed)
			}
		}
		c.Converter.ExtraArgs = args
	}
}

func (c *Config) normalizeDisplay() {
	c.Display.Color = strings.ToLower(strings.TrimSpace(c.Display.Color))
	if c.Display.Color == "" {
		c.Display.Color = defaultDisplayColor
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeExtension lowercases an extension and strips any leading dots.
func normalizeExtension(ext string) string {
	return strings.TrimLeft(strings.ToLower(strings.TrimSpace(ext)), ".")
}
