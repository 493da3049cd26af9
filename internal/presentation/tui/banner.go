package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Intervista banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{" ___       _                  _     _        ", "#818cf8"},
		{"|_ _|_ __ | |_ ___ _ ____   _(_)___| |_ __ _ ", "#a78bfa"},
		{" | || '_ \\| __/ _ \\ '__\\ \\ / / / __| __/ _` |", "#c084fc"},
		{" | || | | | ||  __/ |   \\ V /| \\__ \\ || (_| |", "#e879f9"},
		{"|___|_| |_|\\__\\___|_|    \\_/ |_|___/\\__\\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  interview practice "+v).Faint())
	}
	fmt.Fprintln(w)
}
