package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// profile honours NO_COLOR and CLICOLOR_FORCE on top of terminal detection.
func profile() termenv.Profile {
	return termenv.EnvColorProfile()
}

// PrintBanner writes the errand ASCII art banner.
func PrintBanner(w io.Writer) {
	p := profile()
	lines := []struct {
		text, color string
	}{
		{"   ___  _ __ _ __ __ _ _ __   __| |", "#34d399"},
		{"  / _ \\| '__| '__/ _` | '_ \\ / _` |", "#2dd4bf"},
		{" |  __/| |  | | | (_| | | | | (_| |", "#22d3ee"},
		{"  \\___||_|  |_|  \\__,_|_| |_|\\__,_|", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// StatusColor returns the status text coloured for the terminal.
func StatusColor(status string) termenv.Style {
	p := profile()
	s := p.String(status)
	switch status {
	case "succeeded":
		return s.Bold().Foreground(p.Color("#22c55e"))
	case "timed_out", "exhausted", "simulator_done":
		return s.Bold().Foreground(p.Color("#f59e0b"))
	case "failed", "cancelled":
		return s.Bold().Foreground(p.Color("#ef4444"))
	}
	return s
}

// CommandStyle highlights a command sent to the environment.
func CommandStyle(command string) termenv.Style {
	p := profile()
	return p.String(command).Foreground(p.Color("#38bdf8"))
}
