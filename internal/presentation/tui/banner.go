package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []termenv.Style{
		termenv.String("   __     _   ").Foreground(p.Color("#818cf8")),
		termenv.String("  / _|___| |_ ").Foreground(p.Color("#a78bfa")),
		termenv.String(" |  _(_-<  _|").Foreground(p.Color("#c084fc")),
		termenv.String(" |_| /__/\\__|").Foreground(p.Color("#f472b6")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w)
}

// Success colors msg green when the terminal supports it.
func Success(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String(msg).Foreground(p.Color("#22c55e")).Bold().String()
}

// Failure colors msg red when the terminal supports it.
func Failure(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String(msg).Foreground(p.Color("#ef4444")).Bold().String()
}
