package driver

import (
	"context"
	"errors"
	"strconv"
	"time"

	"ember/internal/diag"
	"ember/internal/lexer"
	"ember/internal/rule"
	"ember/internal/source"
	"ember/internal/token"
	"ember/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	// Tokens always ends with EOF.
	Tokens []token.Token
	Bag    *diag.Bag
	Cached bool
}

// Tokenize loads path and scans it into a token stream.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeLoaded(ctx, fs, fs.Get(fileID), opts), nil
}

// TokenizeSource scans content that did not come from disk, e.g. stdin.
func TokenizeSource(ctx context.Context, name string, content []byte, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	content, flags := source.Normalize(content)
	f := fs.Get(fs.Add(name, content, flags|source.FileVirtual))
	return tokenizeLoaded(ctx, fs, f, opts)
}

func tokenizeLoaded(ctx context.Context, fs *source.FileSet, f *source.File, opts Options) *TokenizeResult {
	bag := diag.NewBag(opts.maxDiagnostics())
	toks, cached := tokenizeFile(ctx, f, opts, diag.BagReporter{Bag: bag})
	return &TokenizeResult{FileSet: fs, File: f, Tokens: toks, Bag: bag, Cached: cached}
}

// tokenizeFile scans f, consulting the token cache first. Only clean scans
// are cached, so a hit never hides a diagnostic.
func tokenizeFile(ctx context.Context, f *source.File, opts Options, r diag.Reporter) ([]token.Token, bool) {
	_, span := trace.Start(ctx, trace.ScopePass, "tokenize")
	start := time.Now()

	key := CacheKey(f.Hash, opts.Keywords)
	if toks, ok, err := opts.Cache.Get(key); err != nil {
		cacheWarning(r, f, "read", err)
	} else if ok {
		span.WithExtra("cached", "true").End(strconv.Itoa(len(toks)))
		return toks, true
	}

	toks, err := rule.Scan(lexer.NewFileCursor(f, opts.Keywords))
	var se *rule.ScanError
	switch {
	case errors.As(err, &se):
		code := diag.LexUnknownChar
		if se.Reason == rule.ScanUnterminatedString {
			code = diag.LexUnterminatedString
		}
		diag.ReportError(r, code, se.Span, se.Error()).Emit()
	case err == nil:
		if perr := opts.Cache.Put(key, toks); perr != nil {
			cacheWarning(r, f, "write", perr)
		}
	}

	opts.Timer.Observe("tokenize "+f.Path, time.Since(start), strconv.Itoa(len(toks))+" tokens")
	span.End(strconv.Itoa(len(toks)))
	return toks, false
}

// cacheWarning reports a cache failure without a source anchor: the file
// itself is fine.
func cacheWarning(r diag.Reporter, f *source.File, op string, err error) {
	diag.ReportWarning(r, diag.IOCacheError, source.Span{}, "token cache "+op+" failed for "+f.Path+": "+err.Error()).Emit()
}
