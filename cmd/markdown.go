package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
)

// stdout and stderr are replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func stdoutf(format string, args ...any) { fmt.Fprintf(stdout, format, args...) }
func stderrf(format string, args ...any) { fmt.Fprintf(stderr, format, args...) }

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	if *raw {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	// rendering is cosmetic, fall back to the markdown itself.
	fmt.Fprint(stdout, md)
}
