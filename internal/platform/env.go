package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// ExeName returns the name the binary was invoked as, without directory or
// extension. It falls back to "fsend".
func ExeName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return "fsend"
	}
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// EnvVarPresent reports whether key is set at all, even to an empty value.
func EnvVarPresent(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
