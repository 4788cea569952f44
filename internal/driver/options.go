package driver

import (
	"ember/internal/config"
	"ember/internal/observ"
	"ember/internal/token"
)

// Options configure every driver entry point. The zero value tokenizes with
// no keywords, no cache and one diagnostic bag of 100 entries per file.
type Options struct {
	Keywords       token.Keywords
	MaxDiagnostics int
	// Jobs bounds directory workers; 0 means GOMAXPROCS.
	Jobs       int
	Extensions []string
	Cache      *TokenCache
	Progress   ProgressSink
	Timer      *observ.Timer
}

// OptionsFromConfig maps ember.toml settings onto Options. The cache is
// opened separately since it touches the filesystem.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Keywords:       cfg.KeywordTable(),
		MaxDiagnostics: cfg.Parse.MaxDiagnostics,
		Jobs:           cfg.Parse.Jobs,
		Extensions:     cfg.Parse.Extensions,
	}
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}
