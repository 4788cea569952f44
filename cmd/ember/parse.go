package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/diagfmt"
	"ember/internal/driver"
	"ember/internal/source"
)

// errDiagnostics reports that the input had errors; they are already printed.
var errDiagnostics = errors.New("errors found")

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.em|directory|->",
	Short: "Parse ember source and output the AST",
	Long:  `Parse analyzes an ember source file, stdin ("-") or every source file in a directory and outputs the syntax tree`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|pretty|json)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	parseCmd.Flags().Var(newSwitchFlag(switchAuto), "ui", "progress view for directories (auto|on|off)")
}

func runParse(cmd *cobra.Command, args []string) (err error) {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := loadSettings(cmd, filePath)
	if err != nil {
		return err
	}

	tr, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { tr.close(cmd, err) }()

	if filePath == "-" {
		var data []byte
		if data, err = readStdin(cmd); err != nil {
			return err
		}
		return finishSingle(cmd, s, format, driver.ParseSource(cmd.Context(), "<stdin>", data, s.opts))
	}

	st, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		s.warnExtension(cmd, filePath)
		var result *driver.ParseResult
		if result, err = driver.Parse(cmd.Context(), filePath, s.opts); err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		return finishSingle(cmd, s, format, result)
	}
	return parseDirectory(cmd, s, format, filePath)
}

func finishSingle(cmd *cobra.Command, s *settings, format string, result *driver.ParseResult) error {
	s.printDiagnostics(cmd, result.FileSet, result.Bag, "")
	if err := writeProgram(cmd.OutOrStdout(), format, result.Program); err != nil {
		return err
	}
	reportStop(cmd, s, result.File.Path, result.Complete, result.Stop)
	s.printTimings(cmd.ErrOrStderr())
	return parseOutcome(result.Bag, result.Err)
}

func parseDirectory(cmd *cobra.Command, s *settings, format, dir string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if cmd.Flags().Changed("jobs") {
		s.opts.Jobs = jobs
	}
	mode, err := switchFlag(cmd, "ui")
	if err != nil {
		return err
	}

	var (
		fs      *source.FileSet
		results []driver.ParseDirResult
	)
	if useProgressUI(mode, s.quiet) {
		fs, results, err = runParseDirWithUI(cmd.Context(), dir, s.opts)
	} else {
		fs, results, err = driver.ParseDir(cmd.Context(), dir, s.opts)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	all := diag.NewBag(0)
	var contractErr error
	for _, r := range results {
		prefix := ""
		if r.Program == nil {
			// файл не загрузился: диагностика без привязки к тексту
			prefix = r.Path
		}
		s.printDiagnostics(cmd, fs, r.Bag, prefix)
		all.Merge(r.Bag)
		if r.Err != nil && contractErr == nil {
			contractErr = r.Err
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		output := make(map[string]*diagfmt.ASTNodeOutput, len(results))
		for _, r := range results {
			if r.Program == nil {
				output[displayPath(fs, r.Path, r.FileID, r.Program != nil)] = nil
				continue
			}
			node := diagfmt.BuildAST(r.Program)
			output[displayPath(fs, r.Path, r.FileID, r.Program != nil)] = &node
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return err
		}
	} else {
		for idx, r := range results {
			if !s.quiet {
				fmt.Fprintf(out, "== %s ==\n", displayPath(fs, r.Path, r.FileID, r.Program != nil))
			}
			if r.Program != nil {
				if err := writeProgram(out, format, r.Program); err != nil {
					return err
				}
				reportStop(cmd, s, r.Path, r.Complete, r.Stop)
			}
			if !s.quiet && idx < len(results)-1 {
				fmt.Fprintln(out)
			}
		}
	}
	s.printSummary(cmd, len(results), all)
	s.printTimings(cmd.ErrOrStderr())
	return parseOutcome(all, contractErr)
}

// displayPath shows a loaded file relative to the file set; a file that
// failed to load keeps the path it was listed under.
func displayPath(fs *source.FileSet, path string, id source.FileID, loaded bool) string {
	if !loaded {
		return path
	}
	return fs.Get(id).FormatPath("relative", fs.BaseDir())
}

func writeProgram(w io.Writer, format string, prog *ast.Program) error {
	switch format {
	case "json":
		return diagfmt.FormatASTJSON(w, prog)
	case "pretty":
		_, err := fmt.Fprintln(w, ast.Format(prog))
		return err
	default:
		return diagfmt.FormatASTPretty(w, prog)
	}
}

// reportStop tells where parsing stopped when it did not reach the end.
func reportStop(cmd *cobra.Command, s *settings, path string, complete bool, stop source.Location) {
	if complete || s.quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: parsing stopped at %s\n", path, stop)
}

func parseOutcome(bag *diag.Bag, contractErr error) error {
	if contractErr != nil {
		return fmt.Errorf("internal parser error: %w", contractErr)
	}
	if bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
