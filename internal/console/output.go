package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const undefinedError = "An undefined error occurred"

var (
	colorRed    = lipgloss.Color("1")
	colorGreen  = lipgloss.Color("2")
	colorYellow = lipgloss.Color("3")
)

// palette holds the styles for one stream. Each stream gets its own
// renderer so color detection follows where the text actually goes.
type palette struct {
	label     lipgloss.Style
	warning   lipgloss.Style
	success   lipgloss.Style
	highlight lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		label:     r.NewStyle().Foreground(colorRed).Bold(true),
		warning:   r.NewStyle().Foreground(colorYellow).Bold(true),
		success:   r.NewStyle().Foreground(colorGreen),
		highlight: r.NewStyle().Foreground(colorYellow),
	}
}

// Highlight styles text meant for the error stream, such as a flag name.
func (c *Console) Highlight(text string) string {
	return c.errPalette.highlight.Render(text)
}

// PrintSuccess prints a success message to standard output.
func (c *Console) PrintSuccess(msg string) {
	fmt.Fprintln(c.out, c.outPalette.success.Render(msg))
}

// PrintWarning prints a warning to the error stream.
func (c *Console) PrintWarning(msg string) {
	fmt.Fprintf(c.err, "%s %s\n", c.errPalette.warning.Render("warning:"), msg)
}

// PrintError prints err and its causes to the error stream, one line per
// link in the wrap chain.
func (c *Console) PrintError(err error) {
	msgs := Causes(err)
	if len(msgs) == 0 {
		msgs = []string{undefinedError}
	}

	for i, msg := range msgs {
		label := "caused by:"
		if i == 0 {
			label = "error:"
		}
		fmt.Fprintf(c.err, "%s %s\n", c.errPalette.label.Render(label), msg)
	}
}

// PrintErrorMsg prints a plain error message.
func (c *Console) PrintErrorMsg(msg string) {
	c.PrintError(errors.New(msg))
}

// Causes flattens the wrap chain of err into one message per link. Each
// message is that link's own text: the text of the wrapped cause is cut from
// the end of the wrapping message. Links without text of their own are
// dropped.
func Causes(err error) []string {
	var msgs []string
	for err != nil {
		next := errors.Unwrap(err)
		msg := err.Error()
		if next != nil {
			msg = ownMessage(msg, next.Error())
		}
		if msg = strings.TrimSpace(msg); msg != "" {
			msgs = append(msgs, msg)
		}
		err = next
	}
	return msgs
}

// ownMessage strips the cause's text from either end of full, so a wrap
// like "%w (while saving)" is not printed twice.
func ownMessage(full, cause string) string {
	switch {
	case cause == "":
		return full
	case strings.HasSuffix(full, cause):
		own := strings.TrimSpace(strings.TrimSuffix(full, cause))
		return strings.TrimSpace(strings.TrimSuffix(own, ":"))
	case strings.HasPrefix(full, cause):
		own := strings.TrimSpace(strings.TrimPrefix(full, cause))
		return strings.TrimSpace(strings.TrimPrefix(own, ":"))
	}
	return full
}
