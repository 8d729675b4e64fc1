package static

import (
	"testing"

	"github.com/gomlx/devinfo/backends"
	"github.com/gomlx/devinfo/info"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, d backends.RawDevice, param info.DeviceParam) info.Value {
	t.Helper()
	raw, err := d.Get(param)
	require.NoError(t, err)
	v, err := param.Entry().Marshal(raw)
	require.NoError(t, err)
	return v
}

func loadDevices(t *testing.T, path string) ([]backends.RawPlatform, [][]backends.RawDevice) {
	t.Helper()
	b, err := backends.New(BackendName + ":" + path)
	require.NoError(t, err)
	platforms, err := b.Platforms()
	require.NoError(t, err)
	devices := make([][]backends.RawDevice, len(platforms))
	for idx, p := range platforms {
		devices[idx], err = p.Devices()
		require.NoError(t, err)
	}
	return platforms, devices
}

func TestLoadYAML(t *testing.T) {
	platforms, devices := loadDevices(t, "testdata/lab.yaml")
	require.Len(t, platforms, 2)
	require.Len(t, devices[0], 1)
	require.Len(t, devices[1], 2)
	assert.Equal(t, "OpenCL", platforms[0].API())

	gpu := devices[0][0]
	assert.Equal(t, info.DeviceTypeGPU, get(t, gpu, info.DeviceParamDeviceType).Any())
	assert.Equal(t, uint32(0x10de), get(t, gpu, info.DeviceParamVendorID).Any())
	assert.Equal(t, info.ID3{1024, 1024, 64}, get(t, gpu, info.DeviceParamMaxWorkItemSizes).Any())
	assert.Equal(t, uint64(25438126080), get(t, gpu, info.DeviceParamGlobalMemSize).Any())
	assert.Equal(t, "denorm inf_nan round_to_nearest round_to_zero round_to_inf fma correctly_rounded_divide_sqrt",
		info.Format(get(t, gpu, info.DeviceParamSingleFPConfig)))
	assert.Equal(t, "none", info.Format(get(t, gpu, info.DeviceParamHalfFPConfig)))
	assert.Equal(t, "cl_khr_global_int32_base_atomics cl_khr_fp64 cl_nv_device_attribute_query",
		info.Format(get(t, gpu, info.DeviceParamExtensions)))
	assert.Equal(t, "550.54.15", info.Format(get(t, gpu, info.DeviceParamDriverVersion)))

	// Listed as unsupported.
	_, err := gpu.Get(info.DeviceParamPrintfBufferSize)
	assert.True(t, errors.Is(err, backends.ErrNotSupported))

	// Not listed: zero answer.
	assert.Equal(t, "false", info.Format(get(t, gpu, info.DeviceParamErrorCorrectionSupport)))
	assert.Equal(t, "none", info.Format(get(t, gpu, info.DeviceParamBuiltInKernels)))

	cpu := devices[1][0]
	assert.Equal(t, "partition_equally partition_by_counts partition_by_affinity_domain",
		info.Format(get(t, cpu, info.DeviceParamPartitionProperties)))
	assert.Equal(t, "numa L4_cache L3_cache L2_cache L1_cache next_partitionable",
		info.Format(get(t, cpu, info.DeviceParamPartitionAffinityDomains)))
	assert.Equal(t, "none", info.Format(get(t, cpu, info.DeviceParamExtensions)))

	raw, err := platforms[1].Get(info.PlatformParamVendor)
	require.NoError(t, err)
	assert.Equal(t, "The pocl project", raw)
	raw, err = platforms[1].Get(info.PlatformParamProfile)
	require.NoError(t, err)
	assert.Equal(t, "", raw)
}

func TestLoadJSONC(t *testing.T) {
	platforms, devices := loadDevices(t, "testdata/single.jsonc")
	require.Len(t, platforms, 1)
	assert.Equal(t, "Custom", platforms[0].API())
	v := get(t, devices[0][0], info.DeviceParamDeviceType)
	assert.Equal(t, "1000 (unknown value)", info.Format(v))
}

func TestEmptyConfig(t *testing.T) {
	b, err := New("")
	require.NoError(t, err)
	platforms, err := b.Platforms()
	require.NoError(t, err)
	assert.Empty(t, platforms)
}

func TestParseErrors(t *testing.T) {
	for name, description := range map[string]string{
		"not-yaml":           "platforms: [",
		"unknown-query":      "platforms: [{devices: [{device_type: gpu, name: x, warp_size: 32}]}]",
		"missing-name":       "platforms: [{devices: [{device_type: gpu}]}]",
		"missing-type":       "platforms: [{devices: [{name: x}]}]",
		"bad-enum":           "platforms: [{devices: [{device_type: quantum, name: x}]}]",
		"bad-number":         "platforms: [{devices: [{device_type: gpu, name: x, max_compute_units: -3}]}]",
		"handle-query":       "platforms: [{devices: [{device_type: gpu, name: x, parent_device: y}]}]",
		"bad-unsupported":    "platforms: [{devices: [{device_type: gpu, name: x, unsupported: name}]}]",
		"unknown-in-list":    "platforms: [{devices: [{device_type: gpu, name: x, unsupported: [warp_size]}]}]",
		"unknown-plat-query": "platforms: [{info: {icd_suffix: x}}]",
	} {
		_, err := Parse([]byte(description))
		assert.Errorf(t, err, "description %q should fail to parse", name)
	}
	_, err := Load("testdata/missing.yaml")
	require.Error(t, err)
}

func TestAvailableByDefault(t *testing.T) {
	b, err := Parse([]byte(`
platforms:
  - devices:
      - {device_type: gpu, name: described}
      - {device_type: gpu, name: offline, is_available: false}
      - {device_type: gpu, name: unknown, unsupported: [is_available]}
`))
	require.NoError(t, err)
	platforms, err := b.Platforms()
	require.NoError(t, err)
	devices, err := platforms[0].Devices()
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, true, get(t, devices[0], info.DeviceParamIsAvailable).Any())
	assert.Equal(t, false, get(t, devices[1], info.DeviceParamIsAvailable).Any())
	_, err = devices[2].Get(info.DeviceParamIsAvailable)
	assert.True(t, errors.Is(err, backends.ErrNotSupported))
}
