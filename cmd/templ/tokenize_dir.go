package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"templ/internal/diag"
	"templ/internal/diagfmt"
	"templ/internal/driver"
	"templ/internal/source"
)

func newTokenizeDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize-dir [flags] [dir]",
		Short: "Tokenize every template in a directory",
		Long: `tokenize-dir lexes all templates under dir in parallel and prints a summary.
Without dir the first template path of templ.toml is used, or the current
directory outside a project.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokenizeDir,
	}
	cmd.Flags().Int("jobs", 0, "max parallel templates (0 = GOMAXPROCS)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("cache", false, "reuse token streams from the on-disk cache")
	cmd.Flags().Bool("clear-cache", false, "drop every cached token stream before tokenizing")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

type dirSummary struct {
	templates int
	tokens    int
	cached    int
	failed    int
	elapsed   time.Duration
}

type templateReport struct {
	Name        string                    `json:"name"`
	Tokens      int                       `json:"tokens"`
	Cached      bool                      `json:"cached"`
	ElapsedMS   float64                   `json:"elapsed_ms"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func runTokenizeDir(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
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

	dir := "."
	switch {
	case len(args) == 1:
		dir = args[0]
	case s.manifest != nil:
		dir = s.manifest.TemplatePaths()[0]
	}

	s.opts.Jobs = jobs
	if useCache || clearCache || s.cacheEnabled() {
		cache, err := s.openCache()
		if err != nil {
			return err
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		// --clear-cache сам по себе кэш не включает
		if useCache || s.cacheEnabled() {
			s.opts.Cache = cache
		}
	}

	start := time.Now()
	var (
		fileSet *source.FileSet
		results []*driver.TokenizeResult
	)
	if format == "pretty" && !s.quiet && shouldUseTUI(mode) {
		files, err := driver.ListTemplates(dir, s.opts)
		if err != nil {
			return err
		}
		fileSet, results, err = runTokenizeDirWithUI(cmd.Context(), "tokenize "+dir, dir, files, s.opts)
		if err != nil {
			return err
		}
	} else {
		fileSet, results, err = driver.TokenizeDir(cmd.Context(), dir, s.opts)
		if err != nil {
			return err
		}
	}
	summary := summarize(results, time.Since(start))

	if format == "json" {
		if err := writeDirReport(cmd.OutOrStdout(), results, fileSet); err != nil {
			return err
		}
	} else {
		if all := mergeDiagnostics(results); all.HasErrors() || all.HasWarnings() {
			diagfmt.Pretty(cmd.ErrOrStderr(), all, fileSet, diagfmt.PrettyOpts{Color: s.color, ShowNotes: true})
		}
		if !s.quiet {
			printDirSummary(cmd.OutOrStdout(), summary)
		}
	}
	printTimings(cmd.ErrOrStderr(), s.timer)

	if summary.failed > 0 {
		return fmt.Errorf("%d of %d templates failed", summary.failed, summary.templates)
	}
	return nil
}

func summarize(results []*driver.TokenizeResult, elapsed time.Duration) dirSummary {
	summary := dirSummary{templates: len(results), elapsed: elapsed}
	for _, res := range results {
		summary.tokens += len(res.Tokens)
		if res.Cached {
			summary.cached++
		}
		if res.Bag.HasErrors() {
			summary.failed++
		}
	}
	return summary
}

// mergeDiagnostics collects the per-template bags into one sorted,
// deduplicated bag.
func mergeDiagnostics(results []*driver.TokenizeResult) *diag.Bag {
	all := diag.NewBag(0)
	for _, res := range results {
		all.Merge(res.Bag)
	}
	all.Sort()
	all.Dedup()
	return all
}

func printDirSummary(out io.Writer, summary dirSummary) {
	fmt.Fprintf(out, "%d templates, %d tokens", summary.templates, summary.tokens)
	if summary.cached > 0 {
		fmt.Fprintf(out, ", %d cached", summary.cached)
	}
	if summary.failed > 0 {
		fmt.Fprintf(out, ", %d failed", summary.failed)
	}
	fmt.Fprintf(out, " in %.1f ms\n", toMillis(summary.elapsed))
}

func writeDirReport(out io.Writer, results []*driver.TokenizeResult, fileSet *source.FileSet) error {
	reports := make([]templateReport, 0, len(results))
	for _, res := range results {
		reports = append(reports, templateReport{
			Name:      res.Name,
			Tokens:    len(res.Tokens),
			Cached:    res.Cached,
			ElapsedMS: toMillis(res.Elapsed),
			Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Bag, fileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
			}),
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
