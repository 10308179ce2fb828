package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dunglas/go-routematch"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	caretStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

// failure prints an error message.
func failure(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), fmt.Sprintf(format, args...))
}

// printCaptures prints named captures sorted by name, then unnamed ones by index.
func printCaptures(w io.Writer, captures routematch.Captures) {
	named := captures.Map()
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(name+":"), valueStyle.Render(named[name]))
	}

	for _, p := range captures {
		if p.Name == "" {
			fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("#%d:", p.Index)), valueStyle.Render(p.Value))
		}
	}
}

// printParseError prints the multi-line rendering of a *routematch.ParseError, or err itself.
func printParseError(w io.Writer, err error) {
	var pe *routematch.ParseError
	if !errors.As(err, &pe) {
		failure(w, "%s", err)
		return
	}

	failure(w, "%s", pe.Reason)
	for i, line := range strings.Split(pe.Pretty(), "\n") {
		if i == 1 {
			line = caretStyle.Render(line)
		}
		fmt.Fprintf(w, "  %s\n", line)
	}
}
