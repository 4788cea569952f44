package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level lets through every scope up
// to and including its deepest one.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // command boundaries only
	LevelPhase        // + tokenize and parse passes
	LevelDetail       // + one span per input file
	LevelDebug        // + parser stops and contract violations
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// deepestScope[l] is the finest scope level l emits; 0 emits nothing.
var deepestScope = [...]Scope{
	LevelOff:    0,
	LevelError:  ScopeDriver,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeNode,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by Level.String, case-insensitively.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(deepestScope) {
		return false
	}
	return scope != 0 && scope <= deepestScope[l]
}
