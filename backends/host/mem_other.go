//go:build !linux && !darwin

package host

func totalMemory() (uint64, bool) { return 0, false }

func cacheInfo() (size uint64, lineSize uint32) { return 0, 0 }
