// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package compute

import (
	"sync/atomic"

	"github.com/gomlx/devinfo/backends"
	"github.com/gomlx/devinfo/info"
	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
)

// refCount is the reference count shared by all aliases of an object. Objects are created with a count of 1.
type refCount struct {
	count atomic.Int32
}

func (r *refCount) init() { r.count.Store(1) }

func (r *refCount) retain() { r.count.Add(1) }

// release decrements the count. Releasing an object with a count of 0 panics and leaves the count unchanged.
func (r *refCount) release(kind info.OwnerKind) int32 {
	for {
		count := r.count.Load()
		if count <= 0 {
			exceptions.Panicf("%s released more times than it was retained", kind)
		}
		if r.count.CompareAndSwap(count, count-1) {
			return count - 1
		}
	}
}

func (r *refCount) get() uint32 { return uint32(r.count.Load()) }

type platformObject struct {
	refs    refCount
	backend backends.Backend
	raw     backends.RawPlatform
	api     string
	isHost  bool
	devices []*deviceObject
}

type deviceObject struct {
	refs     refCount
	platform *platformObject
	raw      backends.RawDevice

	// Set for sub-devices only.
	parent       *deviceObject
	partition    info.PartitionProperty
	affinity     info.PartitionAffinityDomain
	computeUnits uint32
}

type contextObject struct {
	refs     refCount
	id       uuid.UUID
	platform *platformObject
	devices  DeviceList
}

type queueObject struct {
	refs    refCount
	device  Device
	context Context
}

// Platform is a handle to a compute platform: a collection of devices reached through one backend.
//
// Handles are small values: copies alias the same platform, and compare equal.
// The zero Platform is invalid, and using it panics.
type Platform struct {
	p *platformObject
}

var _ info.Handle = Platform{}

// IsValid returns false for the zero Platform.
func (p Platform) IsValid() bool { return p.p != nil }

func (p Platform) object() *platformObject {
	if p.p == nil {
		exceptions.Panicf("compute.Platform used before being initialized")
	}
	return p.p
}

// Kind implements info.Handle.
func (p Platform) Kind() info.OwnerKind { return info.OwnerPlatform }

// IsHost returns whether this is the host platform.
func (p Platform) IsHost() bool { return p.object().isHost }

// BackendName implements info.Handle: the API the platform is reached through.
func (p Platform) BackendName() string { return p.object().api }

// String implements fmt.Stringer.
func (p Platform) String() string { return info.HandleLabel(p) }

// Devices returns the root devices of the platform.
func (p Platform) Devices() DeviceList {
	objects := p.object().devices
	devices := make(DeviceList, len(objects))
	for idx, d := range objects {
		devices[idx] = Device{d}
	}
	return devices
}

// Retain increments the reference count of the platform, and returns an alias to it.
func (p Platform) Retain() Platform {
	p.object().refs.retain()
	return p
}

// Release decrements the reference count of the platform.
func (p Platform) Release() { p.object().refs.release(info.OwnerPlatform) }

// Device is a handle to a compute device, or a sub-device created by partitioning one.
//
// Handles are small values: copies alias the same device, and compare equal.
// The zero Device is invalid, and using it panics.
type Device struct {
	d *deviceObject
}

var _ info.Handle = Device{}

// IsValid returns false for the zero Device.
func (d Device) IsValid() bool { return d.d != nil }

func (d Device) object() *deviceObject {
	if d.d == nil {
		exceptions.Panicf("compute.Device used before being initialized")
	}
	return d.d
}

// Kind implements info.Handle.
func (d Device) Kind() info.OwnerKind { return info.OwnerDevice }

// IsHost returns whether this is the host device.
func (d Device) IsHost() bool { return d.object().platform.isHost }

// IsSubDevice returns whether the device was created by partitioning another device.
func (d Device) IsSubDevice() bool { return d.object().parent != nil }

// BackendName implements info.Handle: the API the device is reached through.
func (d Device) BackendName() string { return d.object().platform.api }

// String implements fmt.Stringer.
func (d Device) String() string { return info.HandleLabel(d) }

// Platform returns the platform owning the device.
func (d Device) Platform() Platform { return Platform{d.object().platform} }

// Retain increments the reference count of the device, and returns an alias to it.
func (d Device) Retain() Device {
	d.object().refs.retain()
	return d
}

// Release decrements the reference count of the device.
func (d Device) Release() { d.object().refs.release(info.OwnerDevice) }

// DeviceList is a list of devices, as answered by the "devices" context query.
type DeviceList []Device

var _ info.HandleList = DeviceList{}

// Handles implements info.HandleList.
func (l DeviceList) Handles() []info.Handle {
	handles := make([]info.Handle, len(l))
	for idx, d := range l {
		handles[idx] = d
	}
	return handles
}

// Contains returns whether the device is in the list.
func (l DeviceList) Contains(d Device) bool {
	for _, element := range l {
		if element == d {
			return true
		}
	}
	return false
}
