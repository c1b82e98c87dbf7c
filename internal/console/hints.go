package console

import (
	"fmt"
	"io"
)

// ErrorHints selects the remedial suggestions printed below an error.
type ErrorHints struct {
	Password bool // --password
	Owner    bool // --owner
	History  bool // --history
	Force    bool // --force
	Verbose  bool // --verbose
	Help     bool // --help
}

// DefaultHints suggests --verbose and --help only.
func DefaultHints() ErrorHints {
	return ErrorHints{Verbose: true, Help: true}
}

// Any reports whether at least one hint is set.
func (h ErrorHints) Any() bool {
	return h.Password || h.Owner || h.History || h.Force || h.Verbose || h.Help
}

// Print writes the selected hints, preceded by a blank line.
func (h ErrorHints) Print(w io.Writer) {
	h.print(w, newPalette(w).highlight.Render)
}

func (h ErrorHints) print(w io.Writer, highlight func(...string) string) {
	if !h.Any() {
		return
	}

	fmt.Fprintln(w)
	if h.Password {
		fmt.Fprintf(w, "Use '%s' to specify a password\n", highlight("--password <PASSWORD>"))
	}
	if h.Owner {
		fmt.Fprintf(w, "Use '%s' to specify an owner token\n", highlight("--owner <TOKEN>"))
	}
	if h.History {
		fmt.Fprintf(w, "Use '%s' to specify a history file\n", highlight("--history <FILE>"))
	}
	if h.Force {
		fmt.Fprintf(w, "Use '%s' to force\n", highlight("--force"))
	}
	if h.Verbose {
		fmt.Fprintf(w, "For detailed errors try '%s'\n", highlight("--verbose"))
	}
	if h.Help {
		fmt.Fprintf(w, "For more information try '%s'\n", highlight("--help"))
	}
}

// printHints writes hints to the error stream, leaving out --verbose when the
// console already is verbose.
func (c *Console) printHints(h ErrorHints) {
	if c.verbose {
		h.Verbose = false
	}
	h.print(c.err, c.errPalette.highlight.Render)
}
