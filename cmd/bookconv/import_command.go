package main

import (
	"github.com/spf13/cobra"

	"bookconv/internal/convertrun"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var source string
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy source files into the input directory without converting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			_, err = convertrun.Import(cmd.Context(), cfg, convertrun.ImportOptions{
				Options:   ctx.runOptions(cmd),
				Source:    source,
				AssumeYes: assumeYes,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source directory (prompted when omitted)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Copy without asking for confirmation")
	return cmd
}
