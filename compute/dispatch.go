// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package compute

import (
	"github.com/gomlx/devinfo/backends"
	"github.com/gomlx/devinfo/info"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// GetInfo answers a device query.
//
// Queries with a documented host answer are answered without consulting the backend on the host device.
// Queries only valid for sub-devices (e.g. the parent device) return ErrUnsupportedForObject on any other device,
// and so do queries the backend doesn't support: the device remains usable.
//
// It panics with an error wrapping ErrInvalidQuery if param is not a known query.
func (d Device) GetInfo(param info.DeviceParam) (info.Value, error) {
	entry := param.Entry()
	obj := d.object()
	if obj.platform.isHost && entry.HostDefault != nil {
		return info.NewValue(entry.Type, entry.HostDefault), nil
	}
	if entry.SubDeviceOnly && obj.parent == nil {
		return info.Value{}, queryError(info.OwnerDevice, entry,
			errors.Wrapf(ErrUnsupportedForObject, "%s is not a sub-device", d))
	}
	if entry.Source == info.SourceHandle {
		return d.handleInfo(param, entry), nil
	}
	if obj.parent != nil && param == info.DeviceParamMaxComputeUnits {
		return info.NewValue(entry.Type, obj.computeUnits), nil
	}
	raw, err := obj.raw.Get(param)
	return marshalAnswer(info.OwnerDevice, entry, raw, err)
}

func (d Device) handleInfo(param info.DeviceParam, entry *info.Entry) info.Value {
	obj := d.d
	var data any
	switch param {
	case info.DeviceParamPlatform:
		data = Platform{obj.platform}
	case info.DeviceParamParentDevice:
		data = Device{obj.parent}
	case info.DeviceParamPartitionTypeProperty:
		data = obj.partition
	case info.DeviceParamPartitionTypeAffinityDomain:
		data = obj.affinity
	case info.DeviceParamReferenceCount:
		data = obj.refs.get()
	}
	return info.NewValue(entry.Type, data)
}

// GetInfo answers a platform query.
//
// It panics with an error wrapping ErrInvalidQuery if param is not a known query.
func (p Platform) GetInfo(param info.PlatformParam) (info.Value, error) {
	entry := param.Entry()
	obj := p.object()
	if obj.isHost && entry.HostDefault != nil {
		return info.NewValue(entry.Type, entry.HostDefault), nil
	}
	raw, err := obj.raw.Get(param)
	return marshalAnswer(info.OwnerPlatform, entry, raw, err)
}

// GetInfo answers a context query. Contexts are answered by their handles only, so it only fails
// for unknown queries, by panicking with an error wrapping ErrInvalidQuery.
func (c Context) GetInfo(param info.ContextParam) (info.Value, error) {
	entry := param.Entry()
	obj := c.object()
	var data any
	switch param {
	case info.ContextParamDevices:
		data = c.Devices()
	case info.ContextParamPlatform:
		data = Platform{obj.platform}
	case info.ContextParamReferenceCount:
		data = obj.refs.get()
	}
	return info.NewValue(entry.Type, data), nil
}

// GetInfo answers a queue query. Queues are answered by their handles only, so it only fails
// for unknown queries, by panicking with an error wrapping ErrInvalidQuery.
func (q Queue) GetInfo(param info.QueueParam) (info.Value, error) {
	entry := param.Entry()
	obj := q.object()
	var data any
	switch param {
	case info.QueueParamDevice:
		data = obj.device
	case info.QueueParamContext:
		data = obj.context
	case info.QueueParamReferenceCount:
		data = obj.refs.get()
	}
	return info.NewValue(entry.Type, data), nil
}

// marshalAnswer converts the raw answer of a backend, or its error, to the result of a query.
func marshalAnswer(owner info.OwnerKind, entry *info.Entry, raw any, err error) (info.Value, error) {
	if err != nil {
		if errors.Is(err, backends.ErrNotSupported) {
			return info.Value{}, queryError(owner, entry, &unsupportedError{cause: err})
		}
		return info.Value{}, queryError(owner, entry, err)
	}
	v, err := entry.Marshal(raw)
	if err != nil {
		klog.Warningf("backend answered a malformed %s query %q: %v", owner, entry.Name, err)
		return info.Value{}, queryError(owner, entry, err)
	}
	return v, nil
}
