package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recipe-catalog/internal/client"
	"recipe-catalog/internal/core/recipe"
)

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories, sub categories and units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				opts, err := c.Categories(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, opts)
				}

				rows := make([][]string, 0, len(opts.Categories)+len(opts.SubCategories)+len(opts.Units))
				rows = appendOptionRows(rows, "category", opts.Categories)
				rows = appendOptionRows(rows, "sub_category", opts.SubCategories)
				rows = appendOptionRows(rows, "unit", opts.Units)
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Kind", "Value", "Label"}, rows, nil))
				return nil
			})
		},
	}
}

func appendOptionRows(rows [][]string, kind string, options []recipe.Option) [][]string {
	for _, o := range options {
		rows = append(rows, []string{kind, o.Value, o.Label})
	}
	return rows
}
