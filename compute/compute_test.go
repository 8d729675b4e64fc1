package compute

import (
	"testing"

	"github.com/gomlx/devinfo/backends"
	"github.com/gomlx/devinfo/backends/host"
	"github.com/gomlx/devinfo/backends/static"
	"github.com/gomlx/devinfo/info"
	"github.com/google/go-cmp/cmp"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const labDescription = `
platforms:
  - api: OpenCL
    info: {name: GPU Platform, vendor: Vendor A, extensions: cl_khr_icd}
    devices:
      - {device_type: gpu, name: GPU 0, is_available: true, max_compute_units: 80}
      - {device_type: gpu, name: GPU 1, is_available: true, max_compute_units: 40}
      - device_type: accelerator
        name: Offline Accelerator
        is_available: false
  - api: Level-Zero
    info: {name: CPU Platform}
    devices:
      - device_type: cpu
        name: CPU
        is_available: true
        max_compute_units: 16
        partition_max_sub_devices: 8
        partition_properties: [partition_equally, partition_by_counts, partition_by_affinity_domain]
        partition_affinity_domains: [numa, L2_cache, next_partitionable]
        unsupported: [opencl_c_version]
`

func staticBackend(t *testing.T, description string) backends.Backend {
	t.Helper()
	b, err := static.Parse([]byte(description))
	require.NoError(t, err)
	return b
}

func hostBackend(t *testing.T) backends.Backend {
	t.Helper()
	b, err := host.New("")
	require.NoError(t, err)
	return b
}

func newLabRuntime(t *testing.T, withHost bool) *Runtime {
	t.Helper()
	bs := []backends.Backend{staticBackend(t, labDescription)}
	if withHost {
		bs = append([]backends.Backend{hostBackend(t)}, bs...)
	}
	r, err := NewRuntime(bs...)
	require.NoError(t, err)
	return r
}

func deviceNamed(t *testing.T, r *Runtime, name string) Device {
	t.Helper()
	for _, d := range r.Devices() {
		if n, err := DeviceInfo(d, DeviceName); err == nil && n == name {
			return d
		}
	}
	require.Failf(t, "device not found", "no device named %q", name)
	return Device{}
}

// report formats every answer of the device, and of its platform.
func report(d Device) map[string]string {
	results := make(map[string]string)
	for _, param := range info.DeviceParams() {
		v, err := d.GetInfo(param)
		if err != nil {
			results["device."+param.String()] = "error: " + err.Error()
			continue
		}
		results["device."+param.String()] = info.Format(v)
	}
	for _, param := range info.PlatformParams() {
		v, err := d.Platform().GetInfo(param)
		if err != nil {
			results["platform."+param.String()] = "error: " + err.Error()
			continue
		}
		results["platform."+param.String()] = info.Format(v)
	}
	return results
}

func TestDiscoveryOrder(t *testing.T) {
	r := newLabRuntime(t, true)
	platforms := r.Platforms()
	require.Len(t, platforms, 3)
	assert.True(t, platforms[0].IsHost())
	assert.Equal(t, "SYCL host platform", info.HandleLabel(platforms[0]))
	assert.Equal(t, "SYCL OpenCL platform", platforms[1].String())
	assert.Equal(t, "SYCL Level-Zero platform", platforms[2].String())

	var names []string
	for _, d := range r.Devices() {
		names = append(names, must.M1(DeviceInfo(d, DeviceName)))
	}
	assert.Equal(t, []string{host.DeviceName, "GPU 0", "GPU 1", "Offline Accelerator", "CPU"}, names)
}

func TestHostOnly(t *testing.T) {
	r, err := NewRuntime(hostBackend(t))
	require.NoError(t, err)
	dev, err := r.SelectDevice(PolicyAutomatic)
	require.NoError(t, err)
	assert.True(t, dev.IsHost())
	assert.False(t, dev.IsSubDevice())
	assert.Equal(t, info.DeviceTypeHost, must.M1(DeviceInfo(dev, DeviceType)))
	assert.Equal(t, "host", info.Format(must.M1(dev.GetInfo(info.DeviceParamDeviceType))))
	assert.NotEmpty(t, must.M1(DeviceInfo(dev, DeviceName)))
	assert.Equal(t, "SYCL host device", dev.String())
	assert.Equal(t, "not applicable", must.M1(DeviceInfo(dev, DeviceOpenCLCVersion)))

	extensions, err := dev.GetInfo(info.DeviceParamExtensions)
	require.NoError(t, err)
	assert.NotEmpty(t, info.Format(extensions))

	platformExtensions, err := dev.Platform().GetInfo(info.PlatformParamExtensions)
	require.NoError(t, err)
	assert.Equal(t, "none", info.Format(platformExtensions))

	_, err = r.SelectDevice(PolicyGPU)
	assert.True(t, errors.Is(err, ErrNoMatchingDevice))
}

// fakeHostBackend is a host backend that answers nothing, to check documented host answers
// never reach the backend.
type fakeHostBackend struct{}

type fakeHostPlatform struct{}

type fakeHostDevice struct{}

func (fakeHostBackend) Name() string        { return "fake_host" }
func (fakeHostBackend) Description() string { return "host backend that answers nothing" }
func (fakeHostBackend) IsHost() bool        { return true }
func (fakeHostBackend) Finalize()           {}
func (fakeHostBackend) Platforms() ([]backends.RawPlatform, error) {
	return []backends.RawPlatform{fakeHostPlatform{}}, nil
}

func (fakeHostPlatform) API() string { return "host" }
func (fakeHostPlatform) Get(info.PlatformParam) (any, error) {
	return nil, backends.ErrNotSupported
}
func (fakeHostPlatform) Devices() ([]backends.RawDevice, error) {
	return []backends.RawDevice{fakeHostDevice{}}, nil
}

func (fakeHostDevice) Get(param info.DeviceParam) (any, error) {
	return nil, errors.Errorf("backend consulted for %s", param)
}

func TestHostDefaultsSkipBackend(t *testing.T) {
	r, err := NewRuntime(fakeHostBackend{})
	require.NoError(t, err)
	dev := r.Devices()[0]
	for _, param := range info.DeviceParams() {
		entry := param.Entry()
		if entry.HostDefault == nil {
			continue
		}
		v, err := dev.GetInfo(param)
		require.NoErrorf(t, err, "query %s", param)
		assert.Equal(t, entry.HostDefault, v.Any(), "query %s", param)
	}

	// Others reach the backend.
	_, err = dev.GetInfo(info.DeviceParamName)
	require.ErrorContains(t, err, "backend consulted")
	assert.False(t, errors.Is(err, ErrUnsupportedForObject))

	// The selector doesn't consult the backend for the host policy, is_available has a host answer.
	selected, err := r.SelectDevice(PolicyHost)
	require.NoError(t, err)
	assert.Equal(t, dev, selected)
}

func TestParentDevice(t *testing.T) {
	r := newLabRuntime(t, true)
	for _, dev := range r.Devices() {
		_, err := dev.GetInfo(info.DeviceParamParentDevice)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedForObject), "got %v", err)
		var queryErr *QueryError
		require.True(t, errors.As(err, &queryErr))
		assert.Equal(t, info.OwnerDevice, queryErr.Owner)
		assert.Equal(t, "parent_device", queryErr.Query)

		// The device remains usable.
		_, err = DeviceInfo(dev, DeviceName)
		require.NoError(t, err)
		assert.Equal(t, info.NoPartition, must.M1(DeviceInfo(dev, DevicePartitionTypeProperty)))
		assert.Equal(t, "not_applicable", info.Format(must.M1(dev.GetInfo(info.DeviceParamPartitionTypeAffinityDomain))))
	}
}

func TestUnsupportedByBackend(t *testing.T) {
	r := newLabRuntime(t, false)
	cpu := deviceNamed(t, r, "CPU")
	_, err := DeviceInfo(cpu, DeviceOpenCLCVersion)
	assert.True(t, errors.Is(err, ErrUnsupportedForObject))
	assert.True(t, errors.Is(err, backends.ErrNotSupported))
	var queryErr *QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, "opencl_c_version", queryErr.Query)
	assert.Equal(t, uint32(16), must.M1(DeviceInfo(cpu, DeviceMaxComputeUnits)))
}

func TestSelectDevice(t *testing.T) {
	r := newLabRuntime(t, true)
	for _, tc := range []struct {
		policy Policy
		want   string
	}{
		{PolicyAutomatic, "GPU 0"},
		{PolicyGPU, "GPU 0"},
		{PolicyCPU, "CPU"},
		{PolicyHost, host.DeviceName},
	} {
		dev, err := r.SelectDevice(tc.policy)
		require.NoError(t, err, "policy %s", tc.policy)
		assert.Equal(t, tc.want, must.M1(DeviceInfo(dev, DeviceName)), "policy %s", tc.policy)
	}

	// The only accelerator is not available, and no other device is substituted.
	_, err := r.SelectDevice(PolicyAccelerator)
	assert.True(t, errors.Is(err, ErrNoMatchingDevice))

	// cpu never yields gpu or accelerator, host always yields the host device.
	for _, rt := range []*Runtime{r, newLabRuntime(t, false)} {
		if dev, err := rt.SelectDevice(PolicyCPU); err == nil {
			deviceType := must.M1(DeviceInfo(dev, DeviceType))
			assert.NotContains(t, []info.DeviceType{info.DeviceTypeGPU, info.DeviceTypeAccelerator}, deviceType)
		}
		if dev, err := rt.SelectDevice(PolicyHost); err == nil {
			assert.True(t, dev.IsHost())
		} else {
			assert.True(t, errors.Is(err, ErrNoMatchingDevice))
		}
	}

	_, err = r.SelectDevice(Policy(42))
	assert.Error(t, err)
}

func TestPolicyString(t *testing.T) {
	for name, want := range map[string]Policy{
		"automatic": PolicyAutomatic, "default": PolicyAutomatic, "GPU": PolicyGPU, " host ": PolicyHost,
	} {
		got, err := PolicyString(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := PolicyString("quantum")
	assert.Error(t, err)
	assert.Equal(t, "accelerator", PolicyAccelerator.String())
}

func TestIdenticalAnswers(t *testing.T) {
	r1, r2 := newLabRuntime(t, true), newLabRuntime(t, true)
	devices1, devices2 := r1.Devices(), r2.Devices()
	require.Len(t, devices2, len(devices1))
	for idx := range devices1 {
		d := devices1[idx]
		alias := d
		if diff := cmp.Diff(report(d), report(alias)); diff != "" {
			t.Errorf("aliases of %s answer differently (-want +got):\n%s", d, diff)
		}
		if diff := cmp.Diff(report(d), report(devices2[idx])); diff != "" {
			t.Errorf("independent handles of %s answer differently (-want +got):\n%s", d, diff)
		}
	}
}

func TestReferenceCount(t *testing.T) {
	r := newLabRuntime(t, false)
	dev := r.Devices()[0]
	assert.Equal(t, uint32(1), must.M1(DeviceInfo(dev, DeviceReferenceCount)))
	alias := dev.Retain()
	assert.Equal(t, dev, alias)
	assert.Equal(t, uint32(2), must.M1(DeviceInfo(dev, DeviceReferenceCount)))
	alias.Release()
	assert.Equal(t, uint32(1), must.M1(DeviceInfo(dev, DeviceReferenceCount)))
	dev.Release()
	require.Panics(t, func() { dev.Release() })

	// A failed release leaves the count unchanged.
	assert.Equal(t, uint32(0), must.M1(DeviceInfo(dev, DeviceReferenceCount)))
	dev.Retain()
	assert.Equal(t, uint32(1), must.M1(DeviceInfo(dev, DeviceReferenceCount)))
}

func TestContextAndQueue(t *testing.T) {
	r := newLabRuntime(t, true)
	gpu0, gpu1 := deviceNamed(t, r, "GPU 0"), deviceNamed(t, r, "GPU 1")
	cpu := deviceNamed(t, r, "CPU")

	_, err := NewContext()
	assert.Error(t, err)
	_, err = NewContext(gpu0, cpu)
	assert.Error(t, err)

	ctx, err := NewContext(gpu0, gpu1)
	require.NoError(t, err)
	assert.Equal(t, DeviceList{gpu0, gpu1}, must.M1(ContextInfo(ctx, ContextDevices)))
	assert.Equal(t, gpu0.Platform(), must.M1(ContextInfo(ctx, ContextPlatform)))
	assert.Equal(t, "SYCL OpenCL device SYCL OpenCL device", info.Format(must.M1(ctx.GetInfo(info.ContextParamDevices))))
	assert.Equal(t, "SYCL OpenCL context", ctx.String())
	assert.NotEqual(t, ctx.ID(), must.M1(NewContext(gpu0)).ID())

	_, err = NewQueue(ctx, cpu)
	assert.Error(t, err)
	q, err := NewQueue(ctx, gpu1)
	require.NoError(t, err)
	assert.Equal(t, gpu1, must.M1(QueueInfo(q, QueueDevice)))
	assert.Equal(t, ctx, must.M1(QueueInfo(q, QueueContext)))
	assert.Equal(t, uint32(1), must.M1(QueueInfo(q, QueueReferenceCount)))

	// Queues don't own their contexts.
	assert.Equal(t, uint32(1), must.M1(ContextInfo(ctx, ContextReferenceCount)))
	ctx.Retain()
	assert.Equal(t, uint32(2), must.M1(ContextInfo(ctx, ContextReferenceCount)))

	q, err = r.NewQueueForPolicy(PolicyHost)
	require.NoError(t, err)
	assert.True(t, q.IsHost())
	assert.Equal(t, "SYCL host context", info.Format(must.M1(q.GetInfo(info.QueueParamContext))))
	cplt := must.M1(ContextInfo(must.M1(QueueInfo(q, QueueContext)), ContextPlatform))
	assert.Equal(t, host.PlatformName, must.M1(PlatformInfo(cplt, PlatformName)))
}

func TestSubDevices(t *testing.T) {
	r := newLabRuntime(t, true)
	cpu := deviceNamed(t, r, "CPU")

	subs, err := cpu.CreateSubDevices(PartitionEqually(4))
	require.NoError(t, err)
	require.Len(t, subs, 4)
	for _, sub := range subs {
		assert.True(t, sub.IsSubDevice())
		assert.Equal(t, cpu, must.M1(DeviceInfo(sub, DeviceParentDevice)))
		assert.Equal(t, uint32(4), must.M1(DeviceInfo(sub, DeviceMaxComputeUnits)))
		assert.Equal(t, info.PartitionEqually, must.M1(DeviceInfo(sub, DevicePartitionTypeProperty)))
		assert.Equal(t, "CPU", must.M1(DeviceInfo(sub, DeviceName)))
		assert.Equal(t, "SYCL Level-Zero device", info.Format(must.M1(sub.GetInfo(info.DeviceParamParentDevice))))
	}

	// 16 compute units in sub-devices of 1: capped by partition_max_sub_devices.
	subs, err = cpu.CreateSubDevices(PartitionEqually(1))
	require.NoError(t, err)
	assert.Len(t, subs, 8)

	subs, err = cpu.CreateSubDevices(PartitionByCounts(10, 6))
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, uint32(6), must.M1(DeviceInfo(subs[1], DeviceMaxComputeUnits)))

	// Sub-devices can be partitioned again.
	subSubs, err := subs[0].CreateSubDevices(PartitionByCounts(5, 5))
	require.NoError(t, err)
	assert.Equal(t, subs[0], must.M1(DeviceInfo(subSubs[0], DeviceParentDevice)))

	subs, err = cpu.CreateSubDevices(PartitionByAffinityDomain(info.AffinityNextPartitionable))
	require.NoError(t, err)
	require.Len(t, subs, 8)
	assert.Equal(t, info.AffinityNUMA, must.M1(DeviceInfo(subs[0], DevicePartitionTypeAffinity)))
	assert.Equal(t, uint32(2), must.M1(DeviceInfo(subs[0], DeviceMaxComputeUnits)))

	for _, p := range []Partition{
		PartitionEqually(0),
		PartitionEqually(17),
		PartitionByCounts(),
		PartitionByCounts(10, 10),
		PartitionByCounts(1, 0),
		PartitionByCounts(1, 1, 1, 1, 1, 1, 1, 1, 1),
		PartitionByCounts(0xFFFFFFFF, 2),
		PartitionByCounts(0xFFFFFFFF, 0xFFFFFFFF, 3),
		PartitionByAffinityDomain(info.AffinityL3Cache),
	} {
		_, err := cpu.CreateSubDevices(p)
		assert.Truef(t, errors.Is(err, ErrInvalidPartition), "partition %s: %v", p, err)
	}

	// Partitions by counts are checked without overflowing.
	_, err = cpu.CreateSubDevices(PartitionByCounts(0x80000000, 0x80000000))
	assert.True(t, errors.Is(err, ErrInvalidPartition))

	// Neither the host nor the GPUs support partitioning.
	for _, name := range []string{host.DeviceName, "GPU 0"} {
		_, err := deviceNamed(t, r, name).CreateSubDevices(PartitionEqually(1))
		assert.True(t, errors.Is(err, ErrInvalidPartition))
	}
}

func TestNextPartitionableDomain(t *testing.T) {
	b := staticBackend(t, `
platforms:
  - devices:
      - device_type: cpu
        name: NUMA CPU
        max_compute_units: 16
        partition_max_sub_devices: 8
        partition_properties: [partition_by_affinity_domain]
        partition_affinity_domains: [numa]
`)
	r, err := NewRuntime(b)
	require.NoError(t, err)
	cpu := deviceNamed(t, r, "NUMA CPU")

	subs, err := cpu.CreateSubDevices(PartitionByAffinityDomain(info.AffinityNextPartitionable))
	require.NoError(t, err)
	require.Len(t, subs, 8)
	for _, sub := range subs {
		assert.Equal(t, info.AffinityNUMA, must.M1(DeviceInfo(sub, DevicePartitionTypeAffinity)))
		assert.Equal(t, uint32(2), must.M1(DeviceInfo(sub, DeviceMaxComputeUnits)))
		assert.Equal(t, cpu, must.M1(DeviceInfo(sub, DeviceParentDevice)))
	}

	subs, err = cpu.CreateSubDevices(PartitionByAffinityDomain(info.AffinityNUMA))
	require.NoError(t, err)
	assert.Len(t, subs, 8)

	_, err = cpu.CreateSubDevices(PartitionByAffinityDomain(info.AffinityL2Cache))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPartition))
	assert.Contains(t, err.Error(), "L2_cache")
}

func TestKeys(t *testing.T) {
	require.Panics(t, func() { NewDeviceKey[string](info.DeviceParamMaxComputeUnits) })
	require.Panics(t, func() { NewPlatformKey[[]string](info.PlatformParamName) })
	require.Panics(t, func() { NewDeviceKey[DeviceList](info.DeviceParamParentDevice) })
	require.NotPanics(t, func() { NewDeviceKey[Device](info.DeviceParamParentDevice) })
}

func TestInvalidQuery(t *testing.T) {
	r := newLabRuntime(t, false)
	dev := r.Devices()[0]
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		_, _ = dev.GetInfo(info.DeviceParam(1000))
	}()
	err, ok := recovered.(error)
	require.True(t, ok)
	assert.True(t, errors.Is(err, ErrInvalidQuery))
	require.Panics(t, func() { _, _ = Device{}.GetInfo(info.DeviceParamName) })
}
