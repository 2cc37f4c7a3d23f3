package main

import (
	"github.com/spf13/cobra"

	"bookconv/internal/convertrun"
	"bookconv/internal/reporter"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "1.0"

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var flow flowFlags

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "bookconv",
		Short:         "Batch EPUB to AZW3 converter",
		Long:          "Import e-books into the working directory and convert them with Calibre's ebook-convert.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runFlow(cmd, flow)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level override (debug, info, warn, error)")
	flow.register(rootCmd, true)

	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

type flowFlags struct {
	skipImport bool
	plain      bool
	noWait     bool
}

func (f *flowFlags) register(cmd *cobra.Command, withImport bool) {
	if withImport {
		cmd.Flags().BoolVar(&f.skipImport, "skip-import", false, "Skip the source import prompts")
	}
	cmd.Flags().BoolVar(&f.plain, "plain", false, "Print line-oriented progress instead of the full-screen display")
	cmd.Flags().BoolVar(&f.noWait, "no-wait", false, "Exit without waiting for a key press when done")
}

func (f flowFlags) mode() reporter.Mode {
	if f.plain {
		return reporter.ModePlain
	}
	return reporter.ModeAuto
}

func (c *commandContext) runFlow(cmd *cobra.Command, flow flowFlags) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	_, err = convertrun.Run(cmd.Context(), cfg, convertrun.RunOptions{
		Options:    c.runOptions(cmd),
		SkipImport: flow.skipImport,
		Mode:       flow.mode(),
		NoWait:     flow.noWait,
	})
	return err
}
