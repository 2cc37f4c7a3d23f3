package main

import (
	"github.com/spf13/cobra"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flow flowFlags

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the files already in the input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flow.skipImport = true
			return ctx.runFlow(cmd, flow)
		},
	}
	flow.register(cmd, false)
	return cmd
}
