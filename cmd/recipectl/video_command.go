package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	recipeHandler "recipe-catalog/internal/api/handlers/recipe"
	"recipe-catalog/internal/client"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "video <url>",
		Short: "Resolve a video link to its id, thumbnail and embed URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client.Client) error {
				resp, err := c.ResolveVideo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printVideo(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}
}

func printVideo(w io.Writer, v *recipeHandler.VideoResolveResponse) {
	if !v.Resolved {
		fmt.Fprintf(w, "Not a recognized video link: %s\n", v.URL)
		return
	}

	rows := [][]string{
		{"Video ID", v.VideoID},
		{"Thumbnail", v.ThumbnailURL},
		{"Embed", v.EmbedURL},
	}
	if v.Probe != nil {
		rows = append(rows,
			[]string{"Verified", yesNo(v.Probe.Verified)},
			[]string{"Fallback", yesNo(v.Probe.Fallback)},
		)
	}
	if v.ProbeError != "" {
		rows = append(rows, []string{"Probe error", v.ProbeError})
	}
	fmt.Fprint(w, renderTable([]string{"Field", "Value"}, rows, nil))
}
