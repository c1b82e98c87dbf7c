package platform

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// ClipboardSupported reports whether a clipboard backend was found.
func ClipboardSupported() bool {
	return !clipboard.Unsupported
}

// SetClipboard replaces the contents of the system clipboard.
func SetClipboard(content string) error {
	if err := clipboardWriteAll(content); err != nil {
		return fmt.Errorf("failed to set clipboard contents: %w", err)
	}
	return nil
}
