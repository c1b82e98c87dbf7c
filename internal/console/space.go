package console

import (
	"fmt"

	"fsend/internal/format"
	"fsend/internal/platform"
)

// availableSpace is a package-level variable to allow mocking in tests.
var availableSpace = platform.AvailableSpace

// EnsureEnoughSpace checks that dir can hold size more bytes. Without
// --force an insufficient amount ends the process. If the free space cannot
// be determined the check is skipped with a warning.
func (c *Console) EnsureEnoughSpace(dir string, size uint64) {
	space, err := availableSpace(dir)
	if err != nil {
		c.PrintWarning(fmt.Sprintf("failed to check available disk space, ignoring: %v", err))
		return
	}
	if space >= size {
		return
	}

	c.PrintErrorMsg("not enough disk space available in the target directory")
	fmt.Fprintf(c.err, "Free space: %s. Needed: %s.\n", format.FormatBytes(space), format.FormatBytes(size))

	if c.matcher.Force() {
		c.PrintWarning("continuing anyway because of --force")
		return
	}
	c.printHints(ErrorHints{Force: true, Help: true})
	c.terminate(1)
}
