// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package static implements a backend whose platforms and devices are described by a file.
//
// It emulates a driver-provided backend (e.g. an OpenCL vendor platform) without any driver: the answers
// are whatever the description says. It's used to test consumers against machines one doesn't have,
// and to reproduce reports collected elsewhere.
//
// The description is a YAML file (or JSON with comments, if the file ends with ".json" or ".jsonc"):
//
//	platforms:
//	  - api: OpenCL
//	    info:
//	      name: Emulated Platform
//	      extensions: cl_khr_icd cl_khr_fp64
//	    devices:
//	      - device_type: gpu
//	        name: Emulated GPU
//	        max_compute_units: 64
//	        unsupported: [opencl_c_version]
//
// Keys are the canonical query names of package info. Values are marshaled with the query's rules, so
// bitfields, space separated extension lists and enum names are all accepted. Queries not listed answer the
// zero value of their type, except for "device_type" and "name" which are required, and "is_available" which
// defaults to true. Queries listed in "unsupported" answer backends.ErrNotSupported.
package static

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gomlx/devinfo/backends"
	"github.com/gomlx/devinfo/info"
	"github.com/pkg/errors"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// BackendName to be used in DEVINFO_BACKENDS to specify this backend.
// Its configuration is the path to the description file, e.g.: "static:/etc/devinfo/lab.yaml".
const BackendName = "static"

// DefaultAPI is used to label platforms whose description doesn't set "api".
const DefaultAPI = "OpenCL"

// UnsupportedKey lists the queries a device or platform description answers as not supported.
const UnsupportedKey = "unsupported"

func init() {
	backends.Register(BackendName, New)
}

// New loads the backend description from the file given in config.
// An empty config creates a backend with no platforms.
func New(config string) (backends.Backend, error) {
	if config == "" {
		return &Backend{}, nil
	}
	return Load(config)
}

// Backend implements backends.Backend with the answers of a description.
type Backend struct {
	source    string
	platforms []*platform
}

var _ backends.Backend = &Backend{}

// Load reads and parses a description file.
func Load(path string) (*Backend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading static backend description")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "parsing %s", path)
	}
	b.source = path
	return b, nil
}

type description struct {
	Platforms []platformDescription `yaml:"platforms"`
}

type platformDescription struct {
	API     string           `yaml:"api"`
	Info    map[string]any   `yaml:"info"`
	Devices []map[string]any `yaml:"devices"`
}

// Parse a YAML (or JSON) description. All answers are validated and marshaled up-front, so a
// malformed description fails here and not on the first query.
func Parse(data []byte) (*Backend, error) {
	var desc description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(err, "decoding static backend description")
	}
	b := &Backend{source: "<inline>"}
	for platformIdx, pd := range desc.Platforms {
		p, err := parsePlatform(pd)
		if err != nil {
			return nil, errors.WithMessagef(err, "platform #%d", platformIdx)
		}
		b.platforms = append(b.platforms, p)
	}
	return b, nil
}

// Name implements backends.Backend.
func (b *Backend) Name() string { return BackendName }

// Description implements backends.Backend.
func (b *Backend) Description() string {
	return "Static platforms described in " + b.source
}

// IsHost implements backends.Backend.
func (b *Backend) IsHost() bool { return false }

// Platforms implements backends.Backend.
func (b *Backend) Platforms() ([]backends.RawPlatform, error) {
	if b.source == "" {
		klog.V(1).Infof("static backend configured without a description: no platforms")
	}
	platforms := make([]backends.RawPlatform, len(b.platforms))
	for idx, p := range b.platforms {
		platforms[idx] = p
	}
	return platforms, nil
}

// Finalize implements backends.Backend.
func (b *Backend) Finalize() {
	b.platforms = nil
}

type platform struct {
	api         string
	values      map[info.PlatformParam]info.Value
	unsupported map[info.PlatformParam]bool
	devices     []*device
}

type device struct {
	values      map[info.DeviceParam]info.Value
	unsupported map[info.DeviceParam]bool
}

func (p *platform) API() string { return p.api }

func (p *platform) Get(param info.PlatformParam) (any, error) {
	if p.unsupported[param] {
		return nil, backends.ErrNotSupported
	}
	if v, found := p.values[param]; found {
		return v.Any(), nil
	}
	return param.Entry().Type.Zero().Any(), nil
}

func (p *platform) Devices() ([]backends.RawDevice, error) {
	devices := make([]backends.RawDevice, len(p.devices))
	for idx, d := range p.devices {
		devices[idx] = d
	}
	return devices, nil
}

func (d *device) Get(param info.DeviceParam) (any, error) {
	if d.unsupported[param] {
		return nil, backends.ErrNotSupported
	}
	if v, found := d.values[param]; found {
		return v.Any(), nil
	}
	return param.Entry().Type.Zero().Any(), nil
}

func parsePlatform(pd platformDescription) (*platform, error) {
	p := &platform{
		api:         pd.API,
		values:      make(map[info.PlatformParam]info.Value),
		unsupported: make(map[info.PlatformParam]bool),
	}
	if p.api == "" {
		p.api = DefaultAPI
	}
	err := parseAnswers(pd.Info, info.PlatformParamByName, p.values, p.unsupported)
	if err != nil {
		return nil, err
	}
	for deviceIdx, dd := range pd.Devices {
		d := &device{
			values:      make(map[info.DeviceParam]info.Value),
			unsupported: make(map[info.DeviceParam]bool),
		}
		if err := parseAnswers(dd, info.DeviceParamByName, d.values, d.unsupported); err != nil {
			return nil, errors.WithMessagef(err, "device #%d", deviceIdx)
		}
		for _, required := range []info.DeviceParam{info.DeviceParamDeviceType, info.DeviceParamName} {
			if _, found := d.values[required]; !found {
				return nil, errors.Errorf("device #%d: missing required %q", deviceIdx, required)
			}
		}
		if _, found := d.values[info.DeviceParamIsAvailable]; !found && !d.unsupported[info.DeviceParamIsAvailable] {
			d.values[info.DeviceParamIsAvailable] = info.NewValue(info.TypeBool, true)
		}
		p.devices = append(p.devices, d)
	}
	return p, nil
}

// param is implemented by info.DeviceParam and info.PlatformParam.
type param interface {
	comparable
	Entry() *info.Entry
}

func parseAnswers[P param](answers map[string]any, byName func(string) (P, bool),
	values map[P]info.Value, unsupported map[P]bool) error {
	for key, raw := range answers {
		if key == UnsupportedKey {
			names, ok := raw.([]any)
			if !ok {
				return errors.Errorf("%q must be a list of query names, got %T", UnsupportedKey, raw)
			}
			for _, name := range names {
				s, _ := name.(string)
				p, found := byName(s)
				if !found {
					return errors.Errorf("%q lists unknown query %v", UnsupportedKey, name)
				}
				unsupported[p] = true
			}
			continue
		}
		p, found := byName(key)
		if !found {
			return errors.Errorf("unknown query %q", key)
		}
		entry := p.Entry()
		if entry.Source == info.SourceHandle {
			return errors.Errorf("query %q is answered by handles, it can't be described", key)
		}
		v, err := entry.Marshal(raw)
		if err != nil {
			return err
		}
		values[p] = v
	}
	return nil
}
