package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tourflow banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _                    __ _              ", "#818cf8"},
		{" | |_ ___  _   _ _ __ / _| | _____      __", "#a78bfa"},
		{" | __/ _ \\| | | | '__| |_| |/ _ \\ \\ /\\ / /", "#c084fc"},
		{" | || (_) | |_| | |  |  _| | (_) \\ V  V / ", "#e879f9"},
		{"  \\__\\___/ \\__,_|_|  |_| |_|\\___/ \\_/\\_/  ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
