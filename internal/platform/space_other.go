//go:build !linux && !darwin && !freebsd && !dragonfly

package platform

import "errors"

// AvailableSpace is not implemented on this platform.
func AvailableSpace(dir string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
