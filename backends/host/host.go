// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package host implements the host pseudo-backend: one platform with one device, the CPU the program
// runs on, reachable without any driver.
//
// Queries with a documented host answer (see info.Entry.HostDefault) are answered by the dispatcher
// without calling this backend. The remaining ones are detected from the machine: number of CPUs,
// vector extensions, memory and cache sizes.
package host

import (
	"math"
	"runtime"
	"strconv"

	"github.com/gomlx/devinfo/backends"
	"github.com/gomlx/devinfo/info"
	"golang.org/x/sys/cpu"
	"k8s.io/klog/v2"
)

// BackendName to be used in DEVINFO_BACKENDS to specify this backend.
const BackendName = "host"

// Name and version strings reported by the host platform and device.
const (
	PlatformName = "SYCL host platform"
	DeviceName   = "SYCL host device"
	Version      = "1.2"
	Profile      = "FULL_PROFILE"
	Vendor       = "GoMLX"
)

// Registers New() as the default constructor for the "host" backend.
func init() {
	backends.Register(BackendName, New)
}

// New constructs the host Backend.
// There are no configurations, the string is simply ignored.
func New(_ string) (backends.Backend, error) {
	return &Backend{machine: detectMachine()}, nil
}

// Backend implements the backends.Backend interface.
type Backend struct {
	machine *machine
}

// Compile-time check that host.Backend implements backends.Backend.
var _ backends.Backend = &Backend{}

// Name returns the short name of the backend.
func (b *Backend) Name() string { return BackendName }

// Description is a longer description of the Backend that can be used to pretty-print.
func (b *Backend) Description() string {
	return "Host CPU (" + runtime.GOOS + "/" + runtime.GOARCH + ", " + strconv.Itoa(b.machine.numCPU) + " cpus)"
}

// IsHost implements backends.Backend.
func (b *Backend) IsHost() bool { return true }

// Platforms returns the single host platform.
func (b *Backend) Platforms() ([]backends.RawPlatform, error) {
	return []backends.RawPlatform{&platform{device: &device{machine: b.machine}}}, nil
}

// Finalize implements backends.Backend. The host holds no resources.
func (b *Backend) Finalize() {}

type platform struct {
	device *device
}

func (p *platform) API() string { return BackendName }

func (p *platform) Get(param info.PlatformParam) (any, error) {
	switch param {
	case info.PlatformParamProfile:
		return Profile, nil
	case info.PlatformParamVersion:
		return Version, nil
	case info.PlatformParamName:
		return PlatformName, nil
	case info.PlatformParamVendor:
		return Vendor, nil
	case info.PlatformParamExtensions:
		return []string{}, nil
	}
	return nil, backends.ErrNotSupported
}

func (p *platform) Devices() ([]backends.RawDevice, error) {
	return []backends.RawDevice{p.device}, nil
}

type device struct {
	machine *machine
}

func (d *device) Get(param info.DeviceParam) (any, error) {
	m := d.machine
	switch param {
	case info.DeviceParamDeviceType:
		return info.DeviceTypeHost, nil
	case info.DeviceParamMaxComputeUnits:
		return m.numCPU, nil
	case info.DeviceParamMaxWorkItemSizes:
		return info.ID3{math.MaxInt32, math.MaxInt32, math.MaxInt32}, nil
	case info.DeviceParamMaxWorkGroupSize:
		return uint64(math.MaxInt32), nil
	case info.DeviceParamPreferredVectorWidthChar, info.DeviceParamNativeVectorWidthChar:
		return m.vectorWidth(1, param == info.DeviceParamNativeVectorWidthChar), nil
	case info.DeviceParamPreferredVectorWidthShort, info.DeviceParamNativeVectorWidthShort:
		return m.vectorWidth(2, param == info.DeviceParamNativeVectorWidthShort), nil
	case info.DeviceParamPreferredVectorWidthInt, info.DeviceParamNativeVectorWidthInt:
		return m.vectorWidth(4, param == info.DeviceParamNativeVectorWidthInt), nil
	case info.DeviceParamPreferredVectorWidthLong, info.DeviceParamNativeVectorWidthLong:
		return m.vectorWidth(8, param == info.DeviceParamNativeVectorWidthLong), nil
	case info.DeviceParamPreferredVectorWidthFloat, info.DeviceParamNativeVectorWidthFloat:
		return m.floatVectorWidth(4), nil
	case info.DeviceParamPreferredVectorWidthDouble, info.DeviceParamNativeVectorWidthDouble:
		return m.floatVectorWidth(8), nil
	case info.DeviceParamPreferredVectorWidthHalf, info.DeviceParamNativeVectorWidthHalf:
		if !m.hardwareHalf {
			return 0, nil
		}
		return m.floatVectorWidth(2), nil
	case info.DeviceParamAddressBits:
		return strconv.IntSize, nil
	case info.DeviceParamMaxMemAllocSize:
		return m.maxMemAlloc(), nil
	case info.DeviceParamMaxConstantBufferSize:
		return m.maxMemAlloc(), nil
	case info.DeviceParamHalfFPConfig:
		return m.halfFPConfig, nil
	case info.DeviceParamSingleFPConfig:
		return m.fpConfig(true), nil
	case info.DeviceParamDoubleFPConfig:
		return m.fpConfig(false), nil
	case info.DeviceParamGlobalMemCacheLineSize:
		return m.cacheLineSize, nil
	case info.DeviceParamGlobalMemCacheSize:
		return m.cacheSize, nil
	case info.DeviceParamGlobalMemSize:
		return m.totalMemory, nil
	case info.DeviceParamIsEndianLittle:
		return !cpu.IsBigEndian, nil
	case info.DeviceParamName:
		return DeviceName, nil
	case info.DeviceParamVendor:
		return Vendor, nil
	case info.DeviceParamDriverVersion, info.DeviceParamVersion:
		return Version, nil
	case info.DeviceParamProfile:
		return Profile, nil
	case info.DeviceParamExtensions:
		return m.extensions(), nil
	}

	// Everything else has a documented host answer.
	if entry := param.Entry(); entry.HostDefault != nil {
		return entry.HostDefault, nil
	}
	klog.V(2).Infof("host device has no answer for %q", param)
	return nil, backends.ErrNotSupported
}
