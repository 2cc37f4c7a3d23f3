package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the working directory layout.
type Paths struct {
	BaseDir   string `toml:"base_dir"`
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Converter contains settings for the external conversion tool.
type Converter struct {
	Binary              string   `toml:"binary"`
	TimeoutSeconds      int      `toml:"timeout_seconds"`
	ProbeTimeoutSeconds int      `toml:"probe_timeout_seconds"`
	SourceExtension     string   `toml:"source_extension"`
	TargetExtension     string   `toml:"target_extension"`
	ExtraArgs           []string `toml:"extra_args"`
	ErrorSnippetLength  int      `toml:"error_snippet_length"`
	InstallHint         string   `toml:"install_hint"`
}

// Import contains settings for copying source files into the input directory.
type Import struct {
	PreviewLimit int `toml:"preview_limit"`
}

// Display contains settings for the progress display.
type Display struct {
	LogLines int    `toml:"log_lines"`
	BarWidth int    `toml:"bar_width"`
	Color    string `toml:"color"` // auto, always, never
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for bookconv.
//
// Configuration sections:
//   - Paths: base, input, output, and log directories
//   - Converter: external tool binary, timeouts, and file extensions
//   - Import: source import preview settings
//   - Display: progress display sizing and color mode
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Converter Converter `toml:"converter"`
	Import    Import    `toml:"import"`
	Display   Display   `toml:"display"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bookconv.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ConvertTimeout returns the per-file conversion bound.
func (c *Config) ConvertTimeout() time.Duration {
	return time.Duration(c.Converter.TimeoutSeconds) * time.Second
}

// ProbeTimeout returns the bound for the availability probe.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Converter.ProbeTimeoutSeconds) * time.Second
}

// SourceLabel returns the display name of the source format, e.g. "EPUB".
func (c *Config) SourceLabel() string {
	return strings.ToUpper(c.Converter.SourceExtension)
}

// TargetLabel returns the display name of the target format, e.g. "AZW3".
func (c *Config) TargetLabel() string {
	return strings.ToUpper(c.Converter.TargetExtension)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
