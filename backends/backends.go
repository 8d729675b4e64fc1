// Package backends defines the narrow interface a compute backend (an OpenCL-like driver, or the host
// pseudo-backend) implements so its platforms and devices can be queried.
//
// The whole contract is a raw retrieval: given a platform or device and a query parameter, a backend answers
// an untyped value, or ErrNotSupported. Marshaling into typed answers, handles and errors are built on top of it
// by package compute.
//
// Backends register a constructor during initialization, see Register. Which backends are used is
// configured with the DEVINFO_BACKENDS environment variable, see NewFromConfig.
package backends

import (
	"os"
	"strings"

	"github.com/gomlx/devinfo/info"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrNotSupported is returned by backends for queries they can't answer for a given object.
var ErrNotSupported = errors.New("query not supported by backend")

// Backend is the API that needs to be implemented by a backend.
type Backend interface {
	// Name returns the short name of the backend, as used in the configuration. E.g.: "host".
	Name() string

	// Description is a longer description of the Backend that can be used to pretty-print.
	Description() string

	// IsHost returns whether this is the host pseudo-backend, which executes on the CPU
	// without any driver.
	IsHost() bool

	// Platforms enumerates the platforms of the backend. It's called once per discovery, and
	// it may be slow.
	Platforms() ([]RawPlatform, error)

	// Finalize releases all the associated resources immediately, and makes the backend invalid.
	Finalize()
}

// RawPlatform is a platform as seen by its backend.
type RawPlatform interface {
	// API is the name of the API the platform is reached through (e.g.: "OpenCL"), used to label handles.
	API() string

	// Get answers a platform query with a raw value, or ErrNotSupported.
	Get(param info.PlatformParam) (any, error)

	// Devices enumerates the root devices of the platform.
	Devices() ([]RawDevice, error)
}

// RawDevice is a device as seen by its backend.
type RawDevice interface {
	// Get answers a device query with a raw value, or ErrNotSupported.
	//
	// Queries answered by handles (platform, parent device, reference counts) are never asked.
	Get(param info.DeviceParam) (any, error)
}

// Constructor takes a config string (optionally empty) and returns a Backend.
type Constructor func(config string) (Backend, error)

var (
	registeredConstructors = make(map[string]Constructor)
	registrationOrder      []string
)

// Register backend with the given name, and a default constructor that takes as input a configuration string that is
// passed along to the backend constructor.
//
// Registering the same name twice panics. To be safe, call Register during initialization of a package.
func Register(name string, constructor Constructor) {
	if _, found := registeredConstructors[name]; found {
		exceptions.Panicf("backend %q registered twice", name)
	}
	registeredConstructors[name] = constructor
	registrationOrder = append(registrationOrder, name)
}

// Registered returns the names of the registered backends, in registration order.
func Registered() []string {
	return append([]string(nil), registrationOrder...)
}

// DefaultConfig is the backends configuration to use if DEVINFO_BACKENDS is not set.
//
// See NewFromConfig for the format of the configuration string.
var DefaultConfig string

// DEVINFO_BACKENDS is the environment variable with the default backends configuration to use.
//
// The format is a comma-separated list of "<backend_name>[:<backend_configuration>]". The "<backend_name>" is the
// name of a registered backend (e.g.: "host") and "<backend_configuration>" is backend specific (e.g.: for the
// "static" backend, it is the path of the file describing its platforms).
const DEVINFO_BACKENDS = "DEVINFO_BACKENDS"

// NewDefault returns the default backends:
//
// 1. The environment DEVINFO_BACKENDS is used as a configuration if defined.
// 2. Next the variable DefaultConfig is used as a configuration if defined.
// 3. Every registered backend is created with an empty configuration, in registration order.
func NewDefault() ([]Backend, error) {
	if config, found := os.LookupEnv(DEVINFO_BACKENDS); found && config != "" {
		return NewFromConfig(config)
	}
	if DefaultConfig != "" {
		return NewFromConfig(DefaultConfig)
	}
	return NewFromConfig(strings.Join(registrationOrder, ","))
}

// NewFromConfig creates the backends listed in config: a comma-separated list of
// "<backend_name>[:<backend_configuration>]".
//
// A backend whose constructor fails is skipped with a warning, as long as at least one backend is created.
func NewFromConfig(config string) ([]Backend, error) {
	if len(registeredConstructors) == 0 {
		return nil, errors.New(`no registered backends -- maybe import the default ones with import _ "github.com/gomlx/devinfo/backends/default"?`)
	}
	var (
		created  []Backend
		firstErr error
	)
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b, err := New(part)
		if err != nil {
			klog.Warningf("skipping backend %q: %+v", part, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		created = append(created, b)
	}
	if len(created) == 0 {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, errors.Errorf("no backends configured in %q", config)
	}
	return created, nil
}

// New creates one backend from a "<backend_name>[:<backend_configuration>]" string.
func New(config string) (Backend, error) {
	backendName, backendConfig := config, ""
	if idx := strings.Index(config, ":"); idx != -1 {
		backendName = config[:idx]
		backendConfig = config[idx+1:]
	}
	constructor, found := registeredConstructors[backendName]
	if !found {
		return nil, errors.Errorf("can't find backend %q for configuration %q given, registered backends are %q",
			backendName, config, registrationOrder)
	}
	b, err := constructor(backendConfig)
	if err != nil {
		return nil, errors.WithMessagef(err, "backend %q", backendName)
	}
	return b, nil
}
