// Package platform wraps the operating system facilities the CLI relies on:
// the default URL/file handler, the clipboard and filesystem statistics.
package platform

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// execCommand is a package-level variable to allow mocking in tests.
var execCommand = exec.Command

// OpenURL opens the given URL in the user's default browser.
func OpenURL(u *url.URL) error {
	if u == nil {
		return fmt.Errorf("no URL to open")
	}
	return OpenPath(u.String())
}

// OpenPath opens the given path or URL with the program the system has
// configured for it. It does not wait for that program to exit.
func OpenPath(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = execCommand("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		cmd = execCommand("open", path)
	default: // "linux", "freebsd", "openbsd", "netbsd"
		cmd = execCommand("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	// Reap the child in the background so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}
