package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	recipeHandler "recipe-catalog/internal/api/handlers/recipe"
	"recipe-catalog/internal/client"
	"recipe-catalog/internal/core/recipe"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var category string
	var subCategory string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes, optionally by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				resp, err := c.ListRecipes(cmd.Context(), category, subCategory)
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

	cmd.Flags().StringVar(&category, "category", "", "Category (main, side, soup, other)")
	cmd.Flags().StringVar(&subCategory, "sub-category", "", "Sub category for main (noodles, rice, donburi, meat, fish, other)")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				r, err := c.GetRecipe(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, r)
				}
				printRecipe(cmd.OutOrStdout(), r)
				return nil
			})
		},
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var form recipe.Form
	var ingredients []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe; unset category follows the current filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, spec := range ingredients {
				form.Ingredients = append(form.Ingredients, parseIngredient(spec))
			}
			return ctx.withClient(func(c *client.Client) error {
				resp, err := c.AddRecipe(cmd.Context(), form)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				printRecipe(cmd.OutOrStdout(), &resp.Recipe)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.Title, "title", "", "Recipe title")
	cmd.Flags().StringVar(&form.Image, "image", "", "Image URL")
	cmd.Flags().StringArrayVar(&ingredients, "ingredient", nil, "Ingredient as name[:amount[:unit]] (repeatable)")
	cmd.Flags().StringArrayVar(&form.Steps, "step", nil, "Cooking step (repeatable)")
	cmd.Flags().StringVar(&form.Notes, "notes", "", "Notes")
	cmd.Flags().StringVar(&form.VideoLink, "video", "", "Reference video URL")
	cmd.Flags().StringVar(&form.Category, "category", "", "Category (main, side, soup, other)")
	cmd.Flags().StringVar(&form.SubCategory, "sub-category", "", "Sub category when category is main")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// parseIngredient 解析 name[:amount[:unit]]
func parseIngredient(spec string) recipe.IngredientInput {
	parts := strings.SplitN(spec, ":", 3)
	in := recipe.IngredientInput{Name: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		in.Amount = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		in.Unit = strings.TrimSpace(parts[2])
	}
	return in
}

func printRecipeList(w io.Writer, resp *recipeHandler.RecipeListResponse) {
	if resp.Filter != nil {
		fmt.Fprintf(w, "Filter: %s\n", selectionLabel(*resp.Filter))
	}
	if len(resp.Recipes) == 0 {
		fmt.Fprintln(w, "No recipes")
		return
	}
	fmt.Fprint(w, renderTable(
		[]string{"ID", "Title", "Category", "Ingredients", "Steps", "Video"},
		buildRecipeRows(resp.Recipes),
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
}

func buildRecipeRows(recipes []recipeHandler.RecipeResponse) [][]string {
	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []string{
			r.ID,
			r.Title,
			categoryLabel(r.CategoryLabel, r.SubCategoryLabel),
			fmt.Sprintf("%d", len(r.Ingredients)),
			fmt.Sprintf("%d", len(r.Steps)),
			yesNo(r.VideoLink != ""),
		})
	}
	return rows
}

func printRecipe(w io.Writer, r *recipeHandler.RecipeResponse) {
	fmt.Fprintf(w, "%s\n", r.Title)
	fmt.Fprintf(w, "  ID:       %s\n", r.ID)
	fmt.Fprintf(w, "  Category: %s\n", categoryLabel(r.CategoryLabel, r.SubCategoryLabel))
	if r.DisplayImage != "" {
		fmt.Fprintf(w, "  Image:    %s\n", r.DisplayImage)
	}
	if r.VideoLink != "" {
		fmt.Fprintf(w, "  Video:    %s\n", r.VideoLink)
	}
	if r.EmbedURL != "" {
		fmt.Fprintf(w, "  Embed:    %s\n", r.EmbedURL)
	}

	if len(r.Ingredients) > 0 {
		fmt.Fprintln(w, "材料")
		for _, in := range r.Ingredients {
			fmt.Fprintf(w, "  - %s\n", in.Label())
		}
	}
	if len(r.Steps) > 0 {
		fmt.Fprintln(w, "作り方")
		for i, step := range r.Steps {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
	if r.Notes != "" {
		fmt.Fprintln(w, "メモ")
		fmt.Fprintf(w, "  %s\n", r.Notes)
	}
}

func categoryLabel(category, sub string) string {
	if sub == "" {
		return category
	}
	return category + " / " + sub
}

func selectionLabel(sel recipe.Selection) string {
	if sel.Category == recipe.CategoryMain {
		return categoryLabel(sel.Category.Label(), sel.SubCategory.Label())
	}
	return sel.Category.Label()
}
