package main

import (
	"errors"

	"fsend/internal/console"
	"fsend/internal/history"
	"fsend/internal/sendapi"
)

// hintedError attaches the hints to print when err ends the process.
type hintedError struct {
	err   error
	hints console.ErrorHints
}

func (e *hintedError) Error() string { return e.err.Error() }
func (e *hintedError) Unwrap() error { return e.err }

func withHints(err error, hints console.ErrorHints) error {
	if err == nil {
		return nil
	}
	return &hintedError{err: err, hints: hints}
}

// hintsFor picks the hints for an error returned by a command.
func hintsFor(err error) console.ErrorHints {
	var hinted *hintedError
	if errors.As(err, &hinted) {
		return hinted.hints
	}

	hints := console.DefaultHints()
	switch {
	case errors.Is(err, sendapi.ErrUnauthorized):
		hints.Owner = true
	case errors.Is(err, history.ErrNotFound):
		hints.History = true
	}
	return hints
}
