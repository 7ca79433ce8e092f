package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recipe-catalog/internal/pkg/common"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	out, err := common.ToJSONIndent(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
