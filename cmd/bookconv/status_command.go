package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bookconv/internal/batch"
	"bookconv/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show readiness checks and pending conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("System Status", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				failKind := statusWarn
				if result.Name == "Converter" {
					failKind = statusError
				}
				fmt.Fprintln(stdout, preflightLine(result, failKind, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range dependencyLines(preflight.CheckSystemDeps(cfg), colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Conversion Queue", colorize) {
				fmt.Fprintln(stdout, line)
			}
			report, err := batch.Pending(cfg.Paths.InputDir, cfg.Paths.OutputDir, cfg.Converter.SourceExtension, cfg.Converter.TargetExtension)
			if err != nil {
				fmt.Fprintln(stdout, renderStatusLine("Pending", statusWarn, err.Error(), colorize))
				return nil
			}
			if report.Eligible == 0 {
				fmt.Fprintln(stdout, renderStatusLine("Pending", statusInfo, fmt.Sprintf("No %s files in %s", cfg.SourceLabel(), cfg.Paths.InputDir), colorize))
				return nil
			}
			fmt.Fprintln(stdout, renderTable(tableSpec{
				Headers: []string{"Files", "Count"},
				Rows: [][]string{
					{fmt.Sprintf("%s in input", cfg.SourceLabel()), strconv.Itoa(report.Eligible)},
					{"Already converted", strconv.Itoa(report.Converted)},
				},
				Footer: []string{"Pending", strconv.Itoa(report.Pending())},
				Aligns: []columnAlignment{alignLeft, alignRight},
			}))
			return nil
		},
	}
}
