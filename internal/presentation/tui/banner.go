package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the nuex ASCII art banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	// Using a subtle gradient-like color scheme (Teal/Cyan)
	lines := []struct {
		text, color string
	}{
		{" _ __  _   _  _____  __", "#2dd4bf"},
		{"| '_ \\| | | |/ _ \\ \\/ /", "#22d3ee"},
		{"| | | | |_| |  __/>  < ", "#38bdf8"},
		{"|_| |_|\\__,_|\\___/_/\\_\\", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
