package driver

import (
	"context"
	"strconv"
	"time"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/parser"
	"ember/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Program *ast.Program
	// Stop and Complete mirror parser.Result.
	Stop     source.Location
	Complete bool
	Bag      *diag.Bag
	// Err carries a parser contract violation; diagnostics are in Bag.
	Err error
}

// Parse loads path and parses it.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseLoaded(ctx, fs, fs.Get(fileID), opts), nil
}

// ParseSource parses content that did not come from disk, e.g. stdin.
func ParseSource(ctx context.Context, name string, content []byte, opts Options) *ParseResult {
	fs := source.NewFileSet()
	content, flags := source.Normalize(content)
	f := fs.Get(fs.Add(name, content, flags|source.FileVirtual))
	return parseLoaded(ctx, fs, f, opts)
}

func parseLoaded(ctx context.Context, fs *source.FileSet, f *source.File, opts Options) *ParseResult {
	bag := diag.NewBag(opts.maxDiagnostics())
	res := parseFile(ctx, f, opts, diag.BagReporter{Bag: bag})
	return &ParseResult{
		FileSet:  fs,
		File:     f,
		Program:  res.Program,
		Stop:     res.Stop,
		Complete: res.Complete,
		Bag:      bag,
		Err:      res.Err,
	}
}

func parseFile(ctx context.Context, f *source.File, opts Options, r diag.Reporter) parser.Result {
	start := time.Now()
	res := parser.ParseFile(ctx, f, parser.Options{Keywords: opts.Keywords, Reporter: r})
	opts.Timer.Observe("parse "+f.Path, time.Since(start), strconv.Itoa(res.Program.Len())+" stmts")
	return res
}
