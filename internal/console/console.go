// Package console holds the user-facing side of the fsend CLI: colored
// success/warning/error output with remedial hints, process termination and
// the interactive prompts for answers, passwords and owner tokens.
//
// Prompts are written to the error stream so that standard output stays
// usable for piping. Every prompt honours the Matcher: in no-interact mode a
// call that would block on input terminates the process instead.
package console

import (
	"bufio"
	"io"
	"os"

	"go.uber.org/zap"
)

// Matcher exposes the global CLI switches the console reacts to.
type Matcher interface {
	// NoInteract reports whether prompting the user is forbidden.
	NoInteract() bool
	// AssumeYes reports whether yes/no questions are answered with yes.
	AssumeYes() bool
	// Force reports whether guards that would normally fail may be skipped.
	Force() bool
}

// StaticMatcher is a Matcher with fixed answers.
type StaticMatcher struct {
	NoInteractive bool
	Yes           bool
	Forced        bool
}

func (m StaticMatcher) NoInteract() bool { return m.NoInteractive }
func (m StaticMatcher) AssumeYes() bool  { return m.Yes }
func (m StaticMatcher) Force() bool      { return m.Forced }

// Console binds the process streams and switches used by all output and
// prompt operations.
type Console struct {
	in      *bufio.Reader
	stdin   *os.File // nil when input is not the process stdin
	out     io.Writer
	err     io.Writer
	matcher Matcher
	verbose bool
	logger  *zap.Logger

	exit         func(code int)
	readPassword func() (string, error)

	outPalette palette
	errPalette palette
}

// Option customizes a Console.
type Option func(*Console)

// WithInput reads answers from r instead of standard input.
func WithInput(r io.Reader) Option {
	return func(c *Console) {
		c.in = bufio.NewReader(r)
		c.stdin, _ = r.(*os.File)
	}
}

// WithOutput replaces standard output and the error stream.
func WithOutput(out, errOut io.Writer) Option {
	return func(c *Console) {
		c.out = out
		c.err = errOut
	}
}

// WithExit replaces os.Exit. The function must not return.
func WithExit(exit func(code int)) Option {
	return func(c *Console) {
		c.exit = exit
	}
}

// WithPasswordReader replaces the hidden terminal password read.
func WithPasswordReader(read func() (string, error)) Option {
	return func(c *Console) {
		c.readPassword = read
	}
}

// WithVerbose marks the console as verbose, which drops the --verbose hint.
func WithVerbose(verbose bool) Option {
	return func(c *Console) {
		c.verbose = verbose
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a console on the process streams.
// A nil matcher behaves like an interactive session without overrides.
func New(matcher Matcher, opts ...Option) *Console {
	if matcher == nil {
		matcher = StaticMatcher{}
	}

	c := &Console{
		in:      bufio.NewReader(os.Stdin),
		stdin:   os.Stdin,
		out:     os.Stdout,
		err:     os.Stderr,
		matcher: matcher,
		logger:  zap.NewNop(),
		exit:    os.Exit,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.readPassword == nil {
		c.readPassword = c.readPasswordDefault
	}

	c.outPalette = newPalette(c.out)
	c.errPalette = newPalette(c.err)
	return c
}

// Matcher returns the switches this console reacts to.
func (c *Console) Matcher() Matcher {
	return c.matcher
}

// Out returns the standard output stream.
func (c *Console) Out() io.Writer {
	return c.out
}

// Err returns the error stream.
func (c *Console) Err() io.Writer {
	return c.err
}
