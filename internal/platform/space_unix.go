//go:build linux || darwin || freebsd || dragonfly

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// AvailableSpace returns the number of bytes an unprivileged user may still
// write to the filesystem holding dir.
func AvailableSpace(dir string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, fmt.Errorf("failed to stat filesystem of %s: %w", dir, err)
	}
	return availableBytes(int64(stat.Bavail), uint64(stat.Bsize)), nil
}
