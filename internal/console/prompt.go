package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Prompt asks for a value and returns the trimmed answer. msg is shown
// followed by ": ". In no-interact mode the process is ended instead.
func (c *Console) Prompt(msg string) string {
	if c.matcher.NoInteract() {
		c.QuitErrorMsg(
			fmt.Sprintf("could not prompt for '%s' in no-interact mode, maybe specify it", msg),
			DefaultHints(),
		)
	}

	fmt.Fprintf(c.err, "%s: ", msg)

	input, err := c.readLine()
	if err != nil {
		c.QuitError(fmt.Errorf("failed to read input from prompt: %w", err), DefaultHints())
	}
	return input
}

// readLine reads one line. A final line without newline is accepted, but
// end of input before any byte is an error.
func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptYes asks a yes/no question. def is the answer an empty reply
// selects; nil means there is none and the user has to answer.
func (c *Console) PromptYes(msg string, def *bool) bool {
	yes, no := "y", "n"
	if def != nil {
		if *def {
			yes = "Y"
		} else {
			no = "N"
		}
	}
	options := fmt.Sprintf("[%s/%s]", yes, no)

	if c.matcher.AssumeYes() {
		fmt.Fprintf(c.err, "%s %s: yes\n", msg, options)
		return true
	}

	if c.matcher.NoInteract() {
		if def == nil {
			c.QuitErrorMsg(
				fmt.Sprintf("could not prompt question '%s' in no-interact mode, maybe specify it", msg),
				DefaultHints(),
			)
		}
		fmt.Fprintf(c.err, "%s %s: %s\n", msg, options, yesNo(*def))
		return *def
	}

	for {
		answer := c.Prompt(msg + " " + options)
		if answer == "" && def != nil {
			return *def
		}
		if value, ok := DeriveBool(answer); ok {
			return value
		}
		c.logger.Debug("indeterminate yes/no answer", zap.String("answer", answer))
	}
}

// Bool returns a pointer to b, for PromptYes defaults.
func Bool(b bool) *bool {
	return &b
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// DeriveBool interprets a yes/no style answer, case-insensitively.
// ok is false when the answer is neither.
func DeriveBool(input string) (value bool, ok bool) {
	input = strings.ToLower(strings.TrimSpace(input))

	switch input {
	case "y", "ye", "t", "1":
		return true, true
	case "n", "f", "0":
		return false, true
	}

	switch {
	case strings.HasPrefix(input, "yes"), strings.HasPrefix(input, "true"):
		return true, true
	case strings.HasPrefix(input, "no"), strings.HasPrefix(input, "false"):
		return false, true
	}
	return false, false
}

// PromptPassword asks for a password without echoing it when standard input
// is a terminal. Empty passwords are refused unless forced.
func (c *Console) PromptPassword() string {
	if c.matcher.NoInteract() {
		c.QuitErrorMsg(
			"missing password, must be specified in no-interact mode",
			ErrorHints{Password: true, Help: true},
		)
	}

	fmt.Fprint(c.err, "Password: ")
	password, err := c.readPassword()
	if err != nil {
		c.QuitError(fmt.Errorf("failed to read password from password prompt: %w", err), DefaultHints())
	}

	if password == "" {
		if !c.matcher.Force() {
			c.QuitErrorMsg("empty password given, which is not allowed", ErrorHints{Force: true, Help: true})
		}
		c.PrintWarning("using an empty password")
	}
	return password
}

func (c *Console) readPasswordDefault() (string, error) {
	if c.stdin != nil && term.IsTerminal(int(c.stdin.Fd())) {
		raw, err := term.ReadPassword(int(c.stdin.Fd()))
		fmt.Fprintln(c.err)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return c.readLine()
}

// EnsurePassword reconciles a password with whether the file needs one.
// A missing but needed password is prompted for; a given but unneeded one
// is dropped. nil means no password.
func (c *Console) EnsurePassword(password *string, needs bool) *string {
	if (password != nil) == needs {
		return password
	}

	if needs {
		fmt.Fprintln(c.out, "This file is protected with a password.")
		p := c.PromptPassword()
		return &p
	}

	fmt.Fprintln(c.out, "Ignoring password, it is not required")
	return nil
}

// PromptOwnerToken asks for the owner token of a file.
func (c *Console) PromptOwnerToken() string {
	return c.Prompt("Owner token")
}

// EnsureOwnerToken returns token when it is set and non-empty, and
// otherwise keeps prompting until a non-empty token is entered.
func (c *Console) EnsureOwnerToken(token *string) string {
	if token == nil {
		if c.matcher.NoInteract() {
			c.QuitErrorMsg(
				"missing owner token, must be specified in no-interact mode",
				ErrorHints{Owner: true, Help: true},
			)
		}
		fmt.Fprintln(c.out, "The file owner token is required for authentication.")
	}

	for {
		if token == nil {
			t := c.PromptOwnerToken()
			token = &t
		}

		if *token != "" {
			return *token
		}

		fmt.Fprintf(c.err,
			"Empty owner token given, which is invalid. Use %s to cancel.\n",
			c.Highlight("[CTRL+C]"),
		)
		token = nil
	}
}
