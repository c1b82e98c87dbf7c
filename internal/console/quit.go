package console

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Quit ends the process successfully.
func (c *Console) Quit() {
	c.terminate(0)
}

// QuitError prints err with the given hints and ends the process with exit
// code 1.
func (c *Console) QuitError(err error, hints ErrorHints) {
	c.logger.Debug("quitting with error", zap.Error(err))
	c.PrintError(err)
	c.printHints(hints)
	c.terminate(1)
}

// QuitErrorMsg is QuitError for a plain message.
func (c *Console) QuitErrorMsg(msg string, hints ErrorHints) {
	c.QuitError(errors.New(msg), hints)
}

func (c *Console) terminate(code int) {
	c.exit(code)
	// The exit hook must not return; callers rely on it.
	panic(fmt.Sprintf("console: exit hook returned for code %d", code))
}
