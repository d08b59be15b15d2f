package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"templ/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a templ project",
		Long: `Initialize a templ project by writing a templ.toml manifest and a templates
directory with a sample template. If [path] is omitted, initializes the current
directory. A missing directory is created.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
}

// runInit writes templ.toml into the target directory and refuses to touch
// an existing manifest. The sample template is only written when absent.
func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	cfg := config.Default()
	manifestPath := filepath.Join(target, config.FileName)
	if err := config.Write(manifestPath, cfg); err != nil {
		return fmt.Errorf("project already initialized or not writable: %w", err)
	}

	templatesDir := filepath.Join(target, filepath.FromSlash(cfg.Loader.Paths[0]))
	if err := os.MkdirAll(templatesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", templatesDir, err)
	}
	samplePath := filepath.Join(templatesDir, "index.html")
	createdSample := false
	if _, err := os.Stat(samplePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(samplePath, []byte(sampleTemplate), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", samplePath, err)
		}
		createdSample = true
	}

	rel := target
	if r, err := filepath.Rel(wd, target); err == nil {
		rel = r
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized templ project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", config.FileName)
	if createdSample {
		fmt.Fprintf(out, "  - %s/index.html\n", cfg.Loader.Paths[0])
	} else {
		fmt.Fprintf(out, "  - %s/index.html (existing)\n", cfg.Loader.Paths[0])
	}
	return nil
}

const sampleTemplate = `{# rendered by the site layout #}
<h1>{{ title|default:"Hello" }}</h1>
{% for item in items %}
  <li>{{ item.name }}</li>
{% endfor %}
`
