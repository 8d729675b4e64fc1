package info

import (
	"fmt"

	"github.com/pkg/errors"
)

// Enum is implemented by all enumerations answered by queries.
//
// Backends may answer values outside the known range (vendor extensions): those are still valid
// values, rendered as "<hex> (unknown value)".
type Enum interface {
	fmt.Stringer

	// Known returns whether the value is one of the declared enumerators.
	Known() bool
}

// UnknownValue renders a raw value not covered by an enumeration.
func UnknownValue(raw uint64) string {
	return fmt.Sprintf("%x (unknown value)", raw)
}

func enumString(names []string, value int) string {
	if value >= 0 && value < len(names) {
		return names[value]
	}
	return UnknownValue(uint64(value))
}

func enumKnown(names []string, value int) bool {
	return value >= 0 && value < len(names)
}

func enumFromName[E ~int](names []string, name string) (E, error) {
	for idx, n := range names {
		if n == name {
			return E(idx), nil
		}
	}
	var zero E
	return zero, errors.Errorf("unknown enum name %q: valid names are %q", name, names)
}

// DeviceType is the type of device. Automatic and All are only meaningful as selection filters.
type DeviceType int

const (
	DeviceTypeCPU DeviceType = iota
	DeviceTypeGPU
	DeviceTypeAccelerator
	DeviceTypeCustom
	DeviceTypeAutomatic
	DeviceTypeHost
	DeviceTypeAll
)

var deviceTypeNames = []string{"cpu", "gpu", "accelerator", "custom", "automatic", "host", "all"}

func (t DeviceType) String() string { return enumString(deviceTypeNames, int(t)) }
func (t DeviceType) Known() bool    { return enumKnown(deviceTypeNames, int(t)) }

// DeviceTypeString parses the canonical name of a DeviceType.
func DeviceTypeString(name string) (DeviceType, error) {
	return enumFromName[DeviceType](deviceTypeNames, name)
}

// FPConfig is one floating point capability of a device.
type FPConfig int

const (
	FPConfigDenorm FPConfig = iota
	FPConfigInfNan
	FPConfigRoundToNearest
	FPConfigRoundToZero
	FPConfigRoundToInf
	FPConfigFMA
	FPConfigCorrectlyRoundedDivideSqrt
	FPConfigSoftFloat
)

var fpConfigNames = []string{
	"denorm", "inf_nan", "round_to_nearest", "round_to_zero", "round_to_inf", "fma",
	"correctly_rounded_divide_sqrt", "soft_float",
}

// fpConfigBits is the OpenCL cl_device_fp_config bit of each FPConfig.
var fpConfigBits = []uint64{
	FPConfigDenorm:                     1 << 0,
	FPConfigInfNan:                     1 << 1,
	FPConfigRoundToNearest:             1 << 2,
	FPConfigRoundToZero:                1 << 3,
	FPConfigRoundToInf:                 1 << 4,
	FPConfigFMA:                        1 << 5,
	FPConfigSoftFloat:                  1 << 6,
	FPConfigCorrectlyRoundedDivideSqrt: 1 << 7,
}

func (c FPConfig) String() string { return enumString(fpConfigNames, int(c)) }
func (c FPConfig) Known() bool    { return enumKnown(fpConfigNames, int(c)) }

// GlobalMemCacheType is the type of global memory cache of a device.
type GlobalMemCacheType int

const (
	GlobalMemCacheNone GlobalMemCacheType = iota
	GlobalMemCacheReadOnly
	GlobalMemCacheReadWrite
)

var globalMemCacheTypeNames = []string{"none", "read_only", "read_write"}

func (t GlobalMemCacheType) String() string { return enumString(globalMemCacheTypeNames, int(t)) }
func (t GlobalMemCacheType) Known() bool    { return enumKnown(globalMemCacheTypeNames, int(t)) }

// LocalMemType is the type of local memory of a device.
type LocalMemType int

const (
	LocalMemNone LocalMemType = iota
	LocalMemLocal
	LocalMemGlobal
)

var localMemTypeNames = []string{"none", "local", "global"}

func (t LocalMemType) String() string { return enumString(localMemTypeNames, int(t)) }
func (t LocalMemType) Known() bool    { return enumKnown(localMemTypeNames, int(t)) }

// ExecutionCapability of a device.
type ExecutionCapability int

const (
	ExecKernel ExecutionCapability = iota
	ExecNativeKernel
)

var executionCapabilityNames = []string{"exec_kernel", "exec_native_kernel"}

var executionCapabilityBits = []uint64{
	ExecKernel:       1 << 0,
	ExecNativeKernel: 1 << 1,
}

func (c ExecutionCapability) String() string { return enumString(executionCapabilityNames, int(c)) }
func (c ExecutionCapability) Known() bool    { return enumKnown(executionCapabilityNames, int(c)) }

// PartitionProperty is a way a device can be partitioned into sub-devices.
type PartitionProperty int

const (
	NoPartition PartitionProperty = iota
	PartitionEqually
	PartitionByCounts
	PartitionByAffinityDomain
)

var partitionPropertyNames = []string{
	"no_partition", "partition_equally", "partition_by_counts", "partition_by_affinity_domain",
}

func (p PartitionProperty) String() string { return enumString(partitionPropertyNames, int(p)) }
func (p PartitionProperty) Known() bool    { return enumKnown(partitionPropertyNames, int(p)) }

// PartitionAffinityDomain is the memory hierarchy level used to partition a device by affinity.
type PartitionAffinityDomain int

const (
	AffinityNotApplicable PartitionAffinityDomain = iota
	AffinityNUMA
	AffinityL4Cache
	AffinityL3Cache
	AffinityL2Cache
	AffinityL1Cache
	AffinityNextPartitionable
)

// The cache levels keep the capital "L" of their enumerator names.
var partitionAffinityDomainNames = []string{
	"not_applicable", "numa", "L4_cache", "L3_cache", "L2_cache", "L1_cache", "next_partitionable",
}

// partitionAffinityDomainBits is the OpenCL cl_device_affinity_domain bit of each domain.
var partitionAffinityDomainBits = []uint64{
	AffinityNotApplicable:     0,
	AffinityNUMA:              1 << 0,
	AffinityL4Cache:           1 << 1,
	AffinityL3Cache:           1 << 2,
	AffinityL2Cache:           1 << 3,
	AffinityL1Cache:           1 << 4,
	AffinityNextPartitionable: 1 << 5,
}

func (d PartitionAffinityDomain) String() string {
	return enumString(partitionAffinityDomainNames, int(d))
}
func (d PartitionAffinityDomain) Known() bool { return enumKnown(partitionAffinityDomainNames, int(d)) }

// ID3 is a 3-component index or size, e.g. the maximum work-item sizes per dimension.
type ID3 [3]uint64
