//go:build darwin

package host

import "golang.org/x/sys/unix"

func totalMemory() (uint64, bool) {
	total, err := unix.SysctlUint64("hw.memsize")
	return total, err == nil
}

func cacheInfo() (size uint64, lineSize uint32) {
	if l3, err := unix.SysctlUint64("hw.l3cachesize"); err == nil && l3 > 0 {
		size = l3
	} else if l2, err := unix.SysctlUint64("hw.l2cachesize"); err == nil {
		size = l2
	}
	if ls, err := unix.SysctlUint64("hw.cachelinesize"); err == nil {
		lineSize = uint32(ls)
	}
	return
}
