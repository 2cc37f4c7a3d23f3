package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bookconv/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit paths.base_dir (or export BOOKCONV_BASE_DIR) to choose the working directory.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, exists, err := config.Load(ctx.configFlagValue())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			_, statErr := os.Stat(ctx.configPath)
			extraArgs := strings.Join(cfg.Converter.ExtraArgs, " ")
			if extraArgs == "" {
				extraArgs = "-"
			}
			rows := [][]string{
				{"Config file", ctx.configPath},
				{"Config file exists", yesNo(statErr == nil)},
				{"Base directory", cfg.Paths.BaseDir},
				{"Input directory", cfg.Paths.InputDir},
				{"Output directory", cfg.Paths.OutputDir},
				{"Log directory", cfg.Paths.LogDir},
				{"Converter", cfg.Converter.Binary},
				{"Converter args", extraArgs},
				{"Conversion timeout", cfg.ConvertTimeout().String()},
				{"Probe timeout", cfg.ProbeTimeout().String()},
				{"Formats", fmt.Sprintf("%s -> %s", cfg.SourceLabel(), cfg.TargetLabel())},
				{"Import preview", strconv.Itoa(cfg.Import.PreviewLimit)},
				{"Display", fmt.Sprintf("bar %d, log lines %d, color %s", cfg.Display.BarWidth, cfg.Display.LogLines, cfg.Display.Color)},
				{"Logging", fmt.Sprintf("%s (%s)", cfg.Logging.Level, cfg.Logging.Format)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				Headers: []string{"Setting", "Value"},
				Rows:    rows,
			}))
			return nil
		},
	}
}
