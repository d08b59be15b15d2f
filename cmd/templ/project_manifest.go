package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"templ/internal/config"
	"templ/internal/driver"
	"templ/internal/observ"
)

// runSettings merges templ.toml with the persistent flags.
type runSettings struct {
	manifest *config.Manifest // nil outside a project
	opts     driver.Options
	color    bool
	quiet    bool
	timer    *observ.Timer // nil unless --timings
}

func loadSettings(cmd *cobra.Command) (*runSettings, error) {
	flags := cmd.Root().PersistentFlags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	useColor, err := readColorMode(colorFlag, os.Stderr)
	if err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifest, ok, err := config.Discover(wd)
	if err != nil {
		return nil, err
	}

	s := &runSettings{color: useColor, quiet: quiet}
	if timings {
		s.timer = observ.NewTimer()
		s.opts.Timer = s.timer
	}
	s.opts.MaxDiagnostics = maxDiagnostics

	if ok {
		s.manifest = manifest
		cfg := manifest.Config
		// флаг важнее файла
		if !flags.Changed("max-diagnostics") && cfg.Lexer.MaxDiagnostics > 0 {
			s.opts.MaxDiagnostics = cfg.Lexer.MaxDiagnostics
		}
		s.opts.NormalizeNewlines = cfg.Loader.NormalizeNewlines
		s.opts.Extensions = cfg.Loader.Extensions
		if !quiet {
			for _, key := range manifest.Undecoded {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: unknown key %q\n", manifest.Path, key)
			}
		}
	}
	return s, nil
}

// openCache opens the token cache from [cache] or the user cache dir.
func (s *runSettings) openCache() (*driver.TokenCache, error) {
	dir := ""
	if s.manifest != nil {
		dir = s.manifest.CacheDir()
	}
	if dir == "" {
		var err error
		dir, err = driver.DefaultCacheDir("templ")
		if err != nil {
			return nil, err
		}
	}
	return driver.OpenTokenCache(dir)
}

// cacheEnabled reports whether [cache].enabled asks for caching.
func (s *runSettings) cacheEnabled() bool {
	return s.manifest != nil && s.manifest.Config.Cache.Enabled
}
