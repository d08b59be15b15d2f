package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"templ/internal/driver"
	"templ/internal/version"
)

// newRootCmd assembles the templ command tree with its persistent flags.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "templ",
		Short: "Template lexer and tooling",
		Long:  `templ splits text templates into tokens and reports lexical diagnostics`,
		// Устанавливаем версию для автоматического флага --version
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
			if err != nil {
				return fmt.Errorf("failed to get color flag: %w", err)
			}
			useColor, err := readColorMode(colorFlag, os.Stdout)
			if err != nil {
				return err
			}
			color.NoColor = !useColor
			return nil
		},
	}

	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newTokenizeDirCmd())
	rootCmd.AddCommand(newSplitCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", driver.DefaultMaxDiagnostics, "maximum number of diagnostics per template")
	flags.String("trace", "", "write trace events to a file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
