package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ember/internal/config"
	"ember/internal/diag"
	"ember/internal/diagfmt"
	"ember/internal/driver"
	"ember/internal/observ"
	"ember/internal/source"
)

// settings is what every subcommand derives from flags and ember.toml.
type settings struct {
	cfg     config.Config
	opts    driver.Options
	color   bool
	quiet   bool
	timings bool
}

// loadSettings resolves ember.toml for input (explicit --config wins, then a
// search upwards from the input) and applies flag overrides on top.
func loadSettings(cmd *cobra.Command, input string) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.Discover(searchDir(input))
	}
	if err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg, opts: driver.OptionsFromConfig(cfg)}
	if flags.Changed("max-diagnostics") {
		if s.opts.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.timings {
		s.opts.Timer = observ.NewTimer()
	}

	colorMode, err := switchFlag(cmd, "color")
	if err != nil {
		return nil, err
	}
	// диагностика идёт в stderr, поэтому смотрим на него
	s.color = colorMode.enabled(os.Stderr)
	color.NoColor = !s.color
	return s, nil
}

// openCache opens the token cache when enabled by flag or ember.toml.
func (s *settings) openCache(enabled bool) error {
	if !enabled && !s.cfg.Cache.Enabled {
		return nil
	}
	cache, err := driver.OpenTokenCache(s.cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("failed to open token cache: %w", err)
	}
	s.opts.Cache = cache
	return nil
}

func (s *settings) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:       s.color,
		Context:     2,
		ShowNotes:   true,
		ShowFixes:   !s.quiet,
		ShowPreview: !s.quiet,
	}
}

// printTimings пишет сводку фаз в out, если включён --timings.
func (s *settings) printTimings(out io.Writer) {
	if s.opts.Timer == nil {
		return
	}
	fmt.Fprint(out, s.opts.Timer.Summary())
}

func searchDir(input string) string {
	if input == "" || input == "-" {
		return "."
	}
	if st, err := os.Stat(input); err == nil && st.IsDir() {
		return input
	}
	return filepath.Dir(input)
}

func readStdin(cmd *cobra.Command) ([]byte, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

// warnExtension notes a file argument whose extension ember.toml does not list.
func (s *settings) warnExtension(cmd *cobra.Command, path string) {
	if s.quiet || path == "-" || s.cfg.HasExtension(path) {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s does not have a source extension (%s)\n",
		path, strings.Join(s.cfg.Parse.Extensions, ", "))
}

// printDiagnostics sorts bag and writes it to stderr. prefix names the file
// when its diagnostics have no anchor in the text (it failed to load).
func (s *settings) printDiagnostics(cmd *cobra.Command, fs *source.FileSet, bag *diag.Bag, prefix string) {
	w := cmd.ErrOrStderr()
	if bag.Len() > 0 {
		bag.Sort()
		if prefix != "" {
			fmt.Fprintf(w, "%s: ", prefix)
		}
		diagfmt.Pretty(w, bag, fs, s.prettyOpts())
	}
	if n := bag.Dropped(); n > 0 && !s.quiet {
		fmt.Fprintf(w, "... %d more %s not shown (see --max-diagnostics)\n", n, plural(n, "diagnostic"))
	}
}

// printSummary пишет итог по каталогу: сколько файлов, ошибок и предупреждений.
func (s *settings) printSummary(cmd *cobra.Command, files int, all *diag.Bag) {
	if s.quiet {
		return
	}
	errs, warns := all.Count(diag.SevError), all.Count(diag.SevWarning)
	fmt.Fprintf(cmd.ErrOrStderr(), "%d %s: %d %s, %d %s\n",
		files, plural(files, "file"), errs, plural(errs, "error"), warns, plural(warns, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
