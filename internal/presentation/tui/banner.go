package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tokenforge banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.Profile
	lines := []struct {
		text  string
		color string
	}{
		{" _        _                 __                      ", "#34d399"},
		{"| |_ ___ | | _____ _ __    / _| ___  _ __ __ _  ___ ", "#2dd4bf"},
		{"| __/ _ \\| |/ / _ \\ '_ \\  | |_ / _ \\| '__/ _` |/ _ \\", "#22d3ee"},
		{"| || (_) |   <  __/ | | | |  _| (_) | | | (_| |  __/", "#38bdf8"},
		{" \\__\\___/|_|\\_\\___|_| |_| |_|  \\___/|_|  \\__, |\\___|", "#60a5fa"},
		{"                                         |___/      ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  issued token provisioning, "+version).Faint())
	fmt.Fprintln(w)
}

// Section writes a highlighted section header.
func Section(w io.Writer, title string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, out.String("== "+title+" ==").Bold().Foreground(out.Profile.Color("#38bdf8")))
}
