//go:build linux

package host

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

func totalMemory() (uint64, bool) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return 0, false
	}
	return uint64(si.Totalram) * uint64(si.Unit), true
}

const sysfsCacheDir = "/sys/devices/system/cpu/cpu0/cache"

// cacheInfo returns the size of the last level cache of the first CPU, and its line size, as reported by sysfs.
// It returns zeros if sysfs is not available.
func cacheInfo() (size uint64, lineSize uint32) {
	indices, _ := filepath.Glob(filepath.Join(sysfsCacheDir, "index*"))
	level := -1
	for _, dir := range indices {
		if cacheType := readSysfs(dir, "type"); cacheType == "Instruction" {
			continue
		}
		l, err := strconv.Atoi(readSysfs(dir, "level"))
		if err != nil || l <= level {
			continue
		}
		s, ok := parseCacheSize(readSysfs(dir, "size"))
		if !ok {
			continue
		}
		level, size = l, s
		if ls, err := strconv.ParseUint(readSysfs(dir, "coherency_line_size"), 10, 32); err == nil {
			lineSize = uint32(ls)
		}
	}
	return
}

func readSysfs(dir, name string) string {
	contents, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(contents))
}

// parseCacheSize parses sizes like "32K" or "16384K" or "2M".
func parseCacheSize(s string) (uint64, bool) {
	multiplier := uint64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier, s = 1024, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		multiplier, s = 1024*1024, strings.TrimSuffix(s, "M")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n * multiplier, true
}
