package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	recipeHandler "recipe-catalog/internal/api/handlers/recipe"
	"recipe-catalog/internal/client"
)

func newFilterCommand(ctx *commandContext) *cobra.Command {
	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "Show or change the category filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				resp, err := c.Filter(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printFilter(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}

	filterCmd.AddCommand(newFilterSetCommand(ctx))
	filterCmd.AddCommand(newFilterRecipesCommand(ctx))

	return filterCmd
}

func newFilterSetCommand(ctx *commandContext) *cobra.Command {
	var req recipeHandler.FilterRequest

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Select a category and/or sub category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Category == "" && req.SubCategory == "" {
				return errors.New("set --category and/or --sub-category")
			}
			return ctx.withClient(func(c *client.Client) error {
				resp, err := c.SetFilter(cmd.Context(), req)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printFilter(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Category, "category", "", "Category (main, side, soup, other)")
	cmd.Flags().StringVar(&req.SubCategory, "sub-category", "", "Sub category (noodles, rice, donburi, meat, fish, other)")
	return cmd
}

func newFilterRecipesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List recipes matching the current filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				resp, err := c.FilteredRecipes(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printRecipeList(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}
}

func printFilter(w io.Writer, f *recipeHandler.FilterResponse) {
	rows := [][]string{
		{"Category", f.CategoryLabel, string(f.Category)},
	}
	sub := f.SubCategoryLabel
	if !f.SubCategoryVisible {
		sub += " (hidden)"
	}
	rows = append(rows, []string{"Sub category", sub, string(f.SubCategory)})
	fmt.Fprint(w, renderTable([]string{"Field", "Label", "Value"}, rows, nil))
}
