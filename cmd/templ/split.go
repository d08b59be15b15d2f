package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"templ/internal/token"
)

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split [flags] text",
		Short: "Split tag contents into components",
		Long: `split shows how the contents of a tag break into components: words,
quoted strings kept whole, parentheses as their own components.`,
		Args: cobra.ExactArgs(1),
		RunE: runSplit,
	}
	cmd.Flags().String("format", "lines", "output format (lines|json)")
	return cmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	parts := token.SmartSplit(args[0])
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "lines":
		for _, part := range parts {
			fmt.Fprintln(out, part)
		}
		return nil
	case "json":
		if parts == nil {
			parts = []string{}
		}
		return json.NewEncoder(out).Encode(parts)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
