package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/bottleclip"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List bottle presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tRU\tRL\tHT\tLOGO")
			for _, p := range bottleclip.Presets() {
				logo := "yes"
				if p.NoLogo {
					logo = "no"
				}
				fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%s\n", p.Name, p.RU, p.RL, p.HT, logo)
			}
			return tw.Flush()
		},
	}
}
