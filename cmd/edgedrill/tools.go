package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"edgedrill/pkg/float"
	"edgedrill/pkg/tooling"
)

func newToolsCmd(a *app) *cobra.Command {
	var spindleOnly bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tool catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools, err := tooling.FileCatalog{Path: a.config.Catalog}.Tools()
			if err != nil {
				return fmt.Errorf("failed to read tool catalog %s: %w", a.config.Catalog, err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Type", "Direction", "Diameter", "In spindle", "Length", "Description"})
			shown := 0
			for _, tool := range tools {
				if spindleOnly && !tool.InSpindle {
					continue
				}
				length := ""
				if tool.Length != nil {
					length = float.Repr(*tool.Length)
				}
				dir := "?"
				if tool.Direction.Valid() {
					dir = tool.Direction.String()
				}
				t.AppendRow(table.Row{tool.Number, tool.Type, dir, float.Repr(tool.Diameter), tool.InSpindle, length, tool.Description})
				shown++
			}
			t.Render()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "(%d tools)\n", shown)
			return nil
		},
	}
	cmd.Flags().BoolVar(&spindleOnly, "in-spindle", false, "only list tools loaded in the spindle")
	return cmd
}
