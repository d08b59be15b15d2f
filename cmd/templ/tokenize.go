package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"templ/internal/diagfmt"
	"templ/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] name...",
		Short: "Tokenize a template",
		Long: `Tokenize breaks a template into text, variable, block and comment tokens.
Inside a project (templ.toml) the names are looked up through the configured
template paths and the first one found is used. Outside a project, or with
--file, the first argument is a file path.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("components", false, "show split components of each tag")
	cmd.Flags().Bool("file", false, "treat the argument as a file path")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	components, err := cmd.Flags().GetBool("components")
	if err != nil {
		return fmt.Errorf("failed to get components flag: %w", err)
	}
	asFile, err := cmd.Flags().GetBool("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var result *driver.TokenizeResult
	if s.manifest != nil && !asFile {
		result, err = driver.Tokenize(cmd.Context(), s.manifest.Loader(), args, s.opts)
	} else {
		result, err = driver.TokenizeFile(cmd.Context(), args[0], s.opts)
	}
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		result.Bag.Sort()
		result.Bag.Dedup()
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     s.color,
			ShowNotes: true,
		})
	}

	out := cmd.OutOrStdout()
	opts := diagfmt.TokenOpts{Components: components}
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, result.Tokens, result.FileSet, opts)
	} else {
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet, opts)
	}
	if err != nil {
		return err
	}

	printTimings(cmd.ErrOrStderr(), s.timer)
	return nil
}
