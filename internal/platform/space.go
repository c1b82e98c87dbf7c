package platform

// availableBytes multiplies the free block count by the block size. Some
// filesystems report a negative count once the reserved blocks are in use.
func availableBytes(blocks int64, blockSize uint64) uint64 {
	if blocks < 0 {
		return 0
	}
	return uint64(blocks) * blockSize
}
