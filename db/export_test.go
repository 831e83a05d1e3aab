// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

// SetMatchChunkPoints lowers the lookup chunk size for a test and returns
// the restore func
func SetMatchChunkPoints(n int) func() {
	prev := matchChunkPoints
	matchChunkPoints = n
	return func() { matchChunkPoints = prev }
}
