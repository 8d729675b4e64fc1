// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package compute models the objects of a heterogeneous compute runtime (platforms, devices, contexts and
// queues) and answers capability queries about them.
//
// The platforms and devices are discovered from the configured backends (see package backends) when a Runtime
// is created, and are immutable afterward. The simplest use is with the default runtime:
//
//	import _ "github.com/gomlx/devinfo/backends/default"
//
//	dev := must.M1(compute.SelectDevice(compute.PolicyAutomatic))
//	name := must.M1(compute.DeviceInfo(dev, compute.DeviceName))
//	v, err := dev.GetInfo(info.DeviceParamExtensions)
//	fmt.Println(info.Format(v))
//
// Queries are typed: a device query can't be asked of a platform, and the typed keys (e.g. DeviceName) return
// the Go type of the answer.
package compute

import (
	"runtime"
	"sync"

	"github.com/gomlx/devinfo/backends"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Runtime holds the platforms and devices discovered from a set of backends.
type Runtime struct {
	backends  []backends.Backend
	platforms []*platformObject
}

// NewRuntime discovers the platforms and devices of the given backends. Backends are enumerated in
// parallel, but platforms are kept in the order of the backends, and then in the order each backend reports them.
func NewRuntime(bs ...backends.Backend) (*Runtime, error) {
	perBackend := make([][]*platformObject, len(bs))
	var g errgroup.Group
	g.SetLimit(max(runtime.GOMAXPROCS(0), 1))
	for idx, b := range bs {
		g.Go(func() error {
			platforms, err := discover(b)
			if err != nil {
				return errors.WithMessagef(err, "discovering platforms of backend %q", b.Name())
			}
			perBackend[idx] = platforms
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := &Runtime{backends: bs}
	for _, platforms := range perBackend {
		r.platforms = append(r.platforms, platforms...)
	}
	klog.V(1).Infof("discovered %d platform(s) from %d backend(s)", len(r.platforms), len(bs))
	return r, nil
}

func discover(b backends.Backend) ([]*platformObject, error) {
	raws, err := b.Platforms()
	if err != nil {
		return nil, err
	}
	platforms := make([]*platformObject, 0, len(raws))
	for platformIdx, raw := range raws {
		p := &platformObject{
			backend: b,
			raw:     raw,
			api:     raw.API(),
			isHost:  b.IsHost(),
		}
		p.refs.init()
		rawDevices, err := raw.Devices()
		if err != nil {
			return nil, errors.WithMessagef(err, "enumerating devices of platform #%d", platformIdx)
		}
		for _, rawDevice := range rawDevices {
			d := &deviceObject{platform: p, raw: rawDevice}
			d.refs.init()
			p.devices = append(p.devices, d)
		}
		klog.V(1).Infof("backend %q: platform #%d (%s) with %d device(s)", b.Name(), platformIdx, p.api, len(p.devices))
		platforms = append(platforms, p)
	}
	return platforms, nil
}

// Platforms returns all discovered platforms.
func (r *Runtime) Platforms() []Platform {
	platforms := make([]Platform, len(r.platforms))
	for idx, p := range r.platforms {
		platforms[idx] = Platform{p}
	}
	return platforms
}

// Devices returns the root devices of all platforms, in discovery order.
func (r *Runtime) Devices() DeviceList {
	var devices DeviceList
	for _, p := range r.platforms {
		devices = append(devices, Platform{p}.Devices()...)
	}
	return devices
}

// Finalize the backends of the runtime. Handles obtained from it must not be used afterward.
func (r *Runtime) Finalize() {
	for _, b := range r.backends {
		b.Finalize()
	}
	r.platforms = nil
}

var defaultRuntime = sync.OnceValues(func() (*Runtime, error) {
	bs, err := backends.NewDefault()
	if err != nil {
		return nil, err
	}
	return NewRuntime(bs...)
})

// Default returns the runtime of the default backends (see backends.NewDefault), discovered once on first use.
func Default() (*Runtime, error) {
	return defaultRuntime()
}

// Platforms returns the platforms of the default runtime.
func Platforms() ([]Platform, error) {
	r, err := Default()
	if err != nil {
		return nil, err
	}
	return r.Platforms(), nil
}

// Devices returns the root devices of the default runtime.
func Devices() (DeviceList, error) {
	r, err := Default()
	if err != nil {
		return nil, err
	}
	return r.Devices(), nil
}

// SelectDevice selects a device of the default runtime, see Runtime.SelectDevice.
func SelectDevice(policy Policy) (Device, error) {
	r, err := Default()
	if err != nil {
		return Device{}, err
	}
	return r.SelectDevice(policy)
}
