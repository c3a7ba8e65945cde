// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/imgcompress

package imgcompress

const (
	maxUint16 = int(^uint16(0))
	maxInt32  = int(^uint32(0) >> 1)
)

// u32FromCount converts a non-negative count to the uint32 stored on the wire.
// Counts are limited to the int32 range.
func u32FromCount(n int) (uint32, error) {
	if n < 0 || n > maxInt32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}
