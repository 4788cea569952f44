package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// switchMode is the value of the auto|on|off flags (--color, --ui). It
// satisfies pflag.Value so cobra validates it while parsing arguments.
type switchMode string

const (
	switchAuto switchMode = "auto"
	switchOn   switchMode = "on"
	switchOff  switchMode = "off"
)

func parseSwitch(value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on", "always":
		return switchOn, nil
	case "off", "never":
		return switchOff, nil
	default:
		return "", fmt.Errorf("invalid value %q (expected auto|on|off)", value)
	}
}

func (m *switchMode) String() string {
	if *m == "" {
		return string(switchAuto)
	}
	return string(*m)
}

func (m *switchMode) Set(value string) error {
	parsed, err := parseSwitch(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (*switchMode) Type() string { return "auto|on|off" }

// enabled resolves auto against whether f is a terminal.
func (m switchMode) enabled(f *os.File) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	default:
		return isTerminal(f)
	}
}

func newSwitchFlag(def switchMode) *switchMode {
	m := def
	return &m
}

// switchFlag reads an auto|on|off flag from the command, its parents included.
func switchFlag(cmd *cobra.Command, name string) (switchMode, error) {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return "", fmt.Errorf("unknown flag --%s", name)
	}
	mode, err := parseSwitch(f.Value.String())
	if err != nil {
		return "", fmt.Errorf("--%s: %w", name, err)
	}
	return mode, nil
}

// useProgressUI решает, показывать ли TUI: прогресс рисуется в stderr.
func useProgressUI(mode switchMode, quiet bool) bool {
	return !quiet && mode.enabled(os.Stderr)
}
