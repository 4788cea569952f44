// Package config loads ember.toml, the per-project settings of the ember
// tools. The file is optional; a missing file means Default().
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"

	"ember/internal/token"
)

const FileName = "ember.toml"

type Config struct {
	// Path is the file the config came from; empty for defaults.
	Path  string      `toml:"-"`
	Lexer LexerConfig `toml:"lexer"`
	Parse ParseConfig `toml:"parse"`
	Cache CacheConfig `toml:"cache"`
}

type LexerConfig struct {
	Keywords []string `toml:"keywords"`
}

type ParseConfig struct {
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"` // 0 = GOMAXPROCS
	Extensions     []string `toml:"extensions"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty = user cache dir
}

// Default returns the settings used without an ember.toml.
func Default() Config {
	return Config{
		Lexer: LexerConfig{Keywords: slices.Clone(token.DefaultKeywords)},
		Parse: ParseConfig{MaxDiagnostics: 100, Extensions: []string{".em"}},
	}
}

// KeywordTable builds the lexer keyword table.
func (c Config) KeywordTable() token.Keywords {
	return token.NewKeywords(c.Lexer.Keywords...)
}

// HasExtension reports whether path has one of the configured extensions.
func (c Config) HasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Parse.Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Find walks up from startDir to locate ember.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over Default(). Keys absent from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover finds ember.toml above startDir and loads it, falling back to
// Default() when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) validate() error {
	for _, kw := range c.Lexer.Keywords {
		if !isWord(kw) {
			return fmt.Errorf("[lexer].keywords: %q is not an identifier", kw)
		}
	}
	if c.Parse.MaxDiagnostics < 0 {
		return fmt.Errorf("[parse].max_diagnostics must not be negative, got %d", c.Parse.MaxDiagnostics)
	}
	if c.Parse.Jobs < 0 {
		return fmt.Errorf("[parse].jobs must not be negative, got %d", c.Parse.Jobs)
	}
	for _, ext := range c.Parse.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("[parse].extensions: %q must look like \".em\"", ext)
		}
	}
	return nil
}

// isWord совпадает с правилом Ident: буква или '_', затем буквы, цифры, '_'.
func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
