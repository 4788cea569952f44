package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/driver"
	"ember/internal/observ"
	"ember/internal/token"
)

func defaultOpts() driver.Options {
	return driver.Options{Keywords: token.NewKeywords(token.DefaultKeywords...)}
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestTokenizeSource(t *testing.T) {
	res := driver.TokenizeSource(context.Background(), "<stdin>", []byte("a : int = 1\r\nif"), defaultOpts())
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	kinds := make([]token.Kind, 0, len(res.Tokens))
	for _, tok := range res.Tokens {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.Ident, token.Symbol, token.Ident, token.Operation, token.Value, token.Keyword, token.EOF}
	if !slices.Equal(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	if last := res.Tokens[len(res.Tokens)-1]; last.Location.Line != 2 {
		t.Fatalf("CRLF must be normalized, EOF at %v", last.Location)
	}
}

func TestTokenizeSourceErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{"x = \"abc", diag.LexUnterminatedString},
		{"x \x01", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		res := driver.TokenizeSource(context.Background(), "t", []byte(tt.input), defaultOpts())
		if got := codes(res.Bag); !slices.Equal(got, []diag.Code{tt.code}) {
			t.Errorf("%q: codes = %v, want [%v]", tt.input, got, tt.code)
		}
		if res.Tokens[len(res.Tokens)-1].Kind != token.EOF {
			t.Errorf("%q: stream must end with EOF", tt.input)
		}
	}
}

func TestTokenizeUsesCache(t *testing.T) {
	cache, err := driver.OpenTokenCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := defaultOpts()
	opts.Cache = cache

	first := driver.TokenizeSource(context.Background(), "a", []byte("x + 1"), opts)
	second := driver.TokenizeSource(context.Background(), "b", []byte("x + 1"), opts)
	if first.Cached || !second.Cached {
		t.Fatalf("Cached = %v, %v; want false, true", first.Cached, second.Cached)
	}
	if !slices.Equal(first.Tokens, second.Tokens) {
		t.Fatalf("cached tokens differ: %v vs %v", first.Tokens, second.Tokens)
	}

	// с ошибкой не кэшируется
	bad := []byte("x \"")
	driver.TokenizeSource(context.Background(), "c", bad, opts)
	if again := driver.TokenizeSource(context.Background(), "c", bad, opts); again.Cached || again.Bag.Len() != 1 {
		t.Fatalf("failed scan must not be cached: cached=%v diags=%d", again.Cached, again.Bag.Len())
	}
}

func TestParseSource(t *testing.T) {
	timer := observ.NewTimer()
	opts := defaultOpts()
	opts.Timer = timer
	res := driver.ParseSource(context.Background(), "t", []byte("a : int = 1\nb + 2 * 3\n"), opts)
	if !res.Complete || res.Err != nil || res.Bag.Len() != 0 {
		t.Fatalf("Complete=%v Err=%v diags=%v", res.Complete, res.Err, res.Bag.Items())
	}
	want := "Decl(a, int, Number(1))\nExprStmt(Add(Ident(b), Mul(Number(2), Number(3))))"
	if got := ast.Format(res.Program); got != want {
		t.Fatalf("program =\n%s\nwant\n%s", got, want)
	}
	if len(timer.Report().Phases) != 1 {
		t.Fatalf("expected one timed phase, got %+v", timer.Report().Phases)
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := driver.Parse(context.Background(), filepath.Join(t.TempDir(), "nope.em"), defaultOpts())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}

type collectSink struct {
	mu     sync.Mutex
	events []driver.Event
}

func (s *collectSink) OnEvent(ev driver.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.em"), "x : int = 1\n")
	writeFile(t, filepath.Join(dir, "sub", "a.EM"), "1 + 2 3\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, ".hidden", "c.em"), "ignored")
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling.em")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	sink := &collectSink{}
	opts := defaultOpts()
	opts.Jobs = 2
	opts.Progress = sink
	_, results, err := driver.ParseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}

	var paths []string
	for _, r := range results {
		rel, _ := filepath.Rel(dir, r.Path)
		paths = append(paths, filepath.ToSlash(rel))
	}
	if want := []string{"b.em", "dangling.em", "sub/a.EM"}; !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}

	if r := results[0]; !r.Complete || r.Bag.Len() != 0 || r.Program.Len() != 1 {
		t.Errorf("b.em: complete=%v diags=%v", r.Complete, r.Bag.Items())
	}
	if r := results[1]; r.Program != nil || !slices.Equal(codes(r.Bag), []diag.Code{diag.IOLoadFileError}) {
		t.Errorf("dangling.em: program=%v codes=%v", r.Program, codes(r.Bag))
	}
	if r := results[2]; r.Complete || !slices.Equal(codes(r.Bag), []diag.Code{diag.SynExpectLineBreak}) {
		t.Errorf("a.EM: complete=%v codes=%v", r.Complete, codes(r.Bag))
	}

	statuses := map[driver.Status]int{}
	for _, ev := range sink.events {
		statuses[ev.Status]++
	}
	if statuses[driver.StatusQueued] != 3 || statuses[driver.StatusDone] != 1 || statuses[driver.StatusError] != 2 {
		t.Fatalf("progress statuses = %v", statuses)
	}
}

func TestTokenizeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.src"), "a b")
	writeFile(t, filepath.Join(dir, "two.em"), "c")

	opts := defaultOpts()
	opts.Extensions = []string{".src"}
	_, results, err := driver.TokenizeDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("TokenizeDir: %v", err)
	}
	if len(results) != 1 || filepath.Base(results[0].Path) != "one.src" || len(results[0].Tokens) != 3 {
		t.Fatalf("results = %+v", results)
	}
}

func TestParseDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.em"), "1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := driver.ParseDir(ctx, dir, defaultOpts()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestParseDirEmpty(t *testing.T) {
	fs, results, err := driver.ParseDir(context.Background(), t.TempDir(), defaultOpts())
	if err != nil || len(results) != 0 || fs == nil {
		t.Fatalf("empty dir: fs=%v results=%v err=%v", fs, results, err)
	}
}
