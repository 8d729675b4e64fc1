package info

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	kind    OwnerKind
	host    bool
	backend string
}

func (h fakeHandle) Kind() OwnerKind     { return h.kind }
func (h fakeHandle) IsHost() bool        { return h.host }
func (h fakeHandle) BackendName() string { return h.backend }

type fakeHandles []fakeHandle

func (l fakeHandles) Handles() []Handle {
	handles := make([]Handle, len(l))
	for idx, h := range l {
		handles[idx] = h
	}
	return handles
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		name string
		v    Value
		want string
	}{
		{"true", NewValue(TypeBool, true), "true"},
		{"false", NewValue(TypeBool, false), "false"},
		{"uint32", NewValue(TypeUint32, uint32(42)), "42"},
		{"size", NewValue(TypeSize, uint64(1)<<40), "1099511627776"},
		{"empty-string", NewValue(TypeString, ""), "none"},
		{"string", NewValue(TypeString, "SYCL host device"), "SYCL host device"},
		{"empty-strings", NewValue(TypeStrings, []string{}), "none"},
		{"strings", NewValue(TypeStrings, []string{"cl_khr_fp64", "cl_khr_fp16"}), "cl_khr_fp64 cl_khr_fp16"},
		{"id3", NewValue(TypeID3, ID3{1024, 512, 64}), "1024 512 64"},
		{"device-type", NewValue(TypeDeviceType, DeviceTypeAccelerator), "accelerator"},
		{"device-type-unknown", NewValue(TypeDeviceType, DeviceType(0x1234)), "1234 (unknown value)"},
		{"fp-configs", NewValue(TypeFPConfigs, []FPConfig{FPConfigDenorm, FPConfigCorrectlyRoundedDivideSqrt}),
			"denorm correctly_rounded_divide_sqrt"},
		{"fp-configs-empty", NewValue(TypeFPConfigs, []FPConfig{}), "none"},
		{"cache-type", NewValue(TypeGlobalMemCacheType, GlobalMemCacheReadOnly), "read_only"},
		{"local-mem", NewValue(TypeLocalMemType, LocalMemLocal), "local"},
		{"exec", NewValue(TypeExecutionCapabilities, []ExecutionCapability{ExecKernel, ExecNativeKernel}),
			"exec_kernel exec_native_kernel"},
		{"partition", NewValue(TypePartitionProperty, PartitionByAffinityDomain), "partition_by_affinity_domain"},
		{"partitions", NewValue(TypePartitionProperties, []PartitionProperty{PartitionEqually, PartitionByCounts}),
			"partition_equally partition_by_counts"},
		{"affinity", NewValue(TypeAffinityDomain, AffinityL3Cache), "L3_cache"},
		{"affinities", NewValue(TypeAffinityDomains, []PartitionAffinityDomain{AffinityNUMA, AffinityNextPartitionable}),
			"numa next_partitionable"},
		{"host-platform", NewValue(TypePlatform, fakeHandle{kind: OwnerPlatform, host: true}), "SYCL host platform"},
		{"opencl-device", NewValue(TypeDevice, fakeHandle{kind: OwnerDevice, backend: "OpenCL"}), "SYCL OpenCL device"},
		{"devices", NewValue(TypeDevices, fakeHandles{
			{kind: OwnerDevice, host: true}, {kind: OwnerDevice, backend: "OpenCL"}}),
			"SYCL host device SYCL OpenCL device"},
		{"no-devices", NewValue(TypeDevices, fakeHandles{}), "none"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.v))
			assert.Equal(t, tc.want, tc.v.String())
		})
	}
}

func TestFormatUnknownEnums(t *testing.T) {
	for _, v := range []Value{
		NewValue(TypeDeviceType, DeviceType(99)),
		NewValue(TypeGlobalMemCacheType, GlobalMemCacheType(99)),
		NewValue(TypeLocalMemType, LocalMemType(99)),
		NewValue(TypePartitionProperty, PartitionProperty(99)),
		NewValue(TypeAffinityDomain, PartitionAffinityDomain(99)),
		NewValue(TypeFPConfigs, []FPConfig{FPConfig(99)}),
		NewValue(TypeExecutionCapabilities, []ExecutionCapability{ExecutionCapability(99)}),
	} {
		got := Format(v)
		assert.True(t, strings.HasSuffix(got, "(unknown value)"), "type %s rendered %q", v.Type(), got)
		assert.Contains(t, got, "63", "hex encoding of 99 missing in %q", got)
	}
	assert.Equal(t, "ffffffffffffffff (unknown value)", DeviceType(-1).String())
}

func TestFormatBooleansOnlyTrueOrFalse(t *testing.T) {
	for _, param := range DeviceParams() {
		entry := param.Entry()
		if entry.Type != TypeBool {
			continue
		}
		for _, b := range []bool{true, false} {
			v, err := entry.Marshal(b)
			require.NoError(t, err)
			got := Format(v)
			assert.Contains(t, []string{"true", "false"}, got, "query %s", entry.Name)
		}
	}
}

func TestFormatInvalid(t *testing.T) {
	assert.Equal(t, "<invalid>", Format(Value{}))
	assert.False(t, Value{}.IsValid())
}
