package sendapi

import "slices"

// DownloadLimits are the download counts a server accepts.
var DownloadLimits = []int{1, 2, 3, 4, 5, 20, 50, 100}

// ValidDownloadLimit reports whether n is one of DownloadLimits.
func ValidDownloadLimit(n int) bool {
	return slices.Contains(DownloadLimits, n)
}
