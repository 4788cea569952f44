package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ember/internal/diag"
	"ember/internal/diagfmt"
	"ember/internal/driver"
	"ember/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.em|directory|->",
	Short: "Tokenize ember source",
	Long:  `Tokenize breaks an ember source file, stdin ("-") or every source file in a directory into tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("cache", false, "reuse token streams from the on-disk cache")
	tokenizeCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runTokenize(cmd *cobra.Command, args []string) (err error) {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}

	s, err := loadSettings(cmd, filePath)
	if err != nil {
		return err
	}
	if err = s.openCache(useCache); err != nil {
		return err
	}

	tr, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { tr.close(cmd, err) }()

	if filePath != "-" {
		if st, statErr := os.Stat(filePath); statErr == nil && st.IsDir() {
			return tokenizeDirectory(cmd, s, format, filePath)
		}
		s.warnExtension(cmd, filePath)
	}

	var result *driver.TokenizeResult
	if filePath == "-" {
		var data []byte
		if data, err = readStdin(cmd); err != nil {
			return err
		}
		result = driver.TokenizeSource(cmd.Context(), "<stdin>", data, s.opts)
	} else if result, err = driver.Tokenize(cmd.Context(), filePath, s.opts); err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	s.printDiagnostics(cmd, result.FileSet, result.Bag, "")

	if err = writeTokens(cmd.OutOrStdout(), format, result.Tokens); err != nil {
		return err
	}
	if result.Cached && !s.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), "tokens loaded from cache")
	}
	s.printTimings(cmd.ErrOrStderr())
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func tokenizeDirectory(cmd *cobra.Command, s *settings, format, dir string) error {
	if cmd.Flags().Changed("jobs") {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
		s.opts.Jobs = jobs
	}
	fs, results, err := driver.TokenizeDir(cmd.Context(), dir, s.opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	all := diag.NewBag(0)
	cached := 0
	for _, r := range results {
		if r.Cached {
			cached++
		}
		prefix := ""
		if r.Tokens == nil {
			prefix = r.Path
		}
		s.printDiagnostics(cmd, fs, r.Bag, prefix)
		all.Merge(r.Bag)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		output := make(map[string][]diagfmt.TokenOutput, len(results))
		for _, r := range results {
			output[displayPath(fs, r.Path, r.FileID, r.Tokens != nil)] = diagfmt.BuildTokens(r.Tokens)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			return err
		}
	} else {
		for idx, r := range results {
			if !s.quiet {
				fmt.Fprintf(out, "== %s ==\n", displayPath(fs, r.Path, r.FileID, r.Tokens != nil))
			}
			if err := writeTokens(out, format, r.Tokens); err != nil {
				return err
			}
			if !s.quiet && idx < len(results)-1 {
				fmt.Fprintln(out)
			}
		}
	}
	if cached > 0 && !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d files loaded from cache\n", cached, len(results))
	}
	s.printSummary(cmd, len(results), all)
	s.printTimings(cmd.ErrOrStderr())
	if all.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func writeTokens(w io.Writer, format string, toks []token.Token) error {
	if format == "json" {
		return diagfmt.FormatTokensJSON(w, toks)
	}
	return diagfmt.FormatTokensPretty(w, toks)
}
