package compute

import (
	"slices"

	"github.com/gomlx/devinfo/info"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Partition describes how to split a device into sub-devices, see Device.CreateSubDevices.
type Partition struct {
	property info.PartitionProperty
	units    uint32
	counts   []uint32
	domain   info.PartitionAffinityDomain
}

// PartitionEqually creates as many sub-devices as possible with computeUnits compute units each.
func PartitionEqually(computeUnits uint32) Partition {
	return Partition{property: info.PartitionEqually, units: computeUnits}
}

// PartitionByCounts creates one sub-device per count, with that many compute units each.
func PartitionByCounts(counts ...uint32) Partition {
	return Partition{property: info.PartitionByCounts, counts: slices.Clone(counts)}
}

// PartitionByAffinityDomain splits the device along the given affinity domain. With
// info.AffinityNextPartitionable the first domain supported by the device is used.
func PartitionByAffinityDomain(domain info.PartitionAffinityDomain) Partition {
	return Partition{property: info.PartitionByAffinityDomain, domain: domain}
}

// String implements fmt.Stringer.
func (p Partition) String() string { return p.property.String() }

// CreateSubDevices partitions the device. The device must report the partition property in
// "partition_properties", and have enough compute units.
//
// Sub-devices answer their own "max_compute_units", "parent_device" and "partition_type_*" queries, and
// inherit every other answer from the device. They can be partitioned again.
func (d Device) CreateSubDevices(p Partition) (DeviceList, error) {
	obj := d.object()
	properties, err := DeviceInfo(d, DevicePartitionProperties)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(properties, p.property) {
		return nil, errors.Wrapf(ErrInvalidPartition, "%s doesn't support %s", d, p.property)
	}
	computeUnits, err := DeviceInfo(d, DeviceMaxComputeUnits)
	if err != nil {
		return nil, err
	}
	maxSubDevices, err := DeviceInfo(d, DevicePartitionMaxSubDevices)
	if err != nil {
		return nil, err
	}

	var (
		counts []uint32
		domain = info.AffinityNotApplicable
	)
	switch p.property {
	case info.PartitionEqually:
		if p.units == 0 || p.units > computeUnits {
			return nil, errors.Wrapf(ErrInvalidPartition, "can't partition %d compute units in sub-devices of %d",
				computeUnits, p.units)
		}
		n := min(computeUnits/p.units, maxSubDevices)
		counts = slices.Repeat([]uint32{p.units}, int(n))

	case info.PartitionByCounts:
		var total uint64
		for _, count := range p.counts {
			if count == 0 {
				return nil, errors.Wrap(ErrInvalidPartition, "sub-devices with 0 compute units")
			}
			total += uint64(count)
		}
		if len(p.counts) == 0 || total > uint64(computeUnits) || uint32(len(p.counts)) > maxSubDevices {
			return nil, errors.Wrapf(ErrInvalidPartition,
				"can't partition %d compute units (at most %d sub-devices) by counts %v", computeUnits, maxSubDevices, p.counts)
		}
		counts = p.counts

	case info.PartitionByAffinityDomain:
		domains, err := DeviceInfo(d, DevicePartitionAffinityDomains)
		if err != nil {
			return nil, err
		}
		domain = p.domain
		if domain == info.AffinityNextPartitionable {
			domain = info.AffinityNotApplicable
			for _, candidate := range domains {
				if candidate != info.AffinityNextPartitionable && candidate != info.AffinityNotApplicable && candidate.Known() {
					domain = candidate
					break
				}
			}
		}
		if domain == info.AffinityNotApplicable || !slices.Contains(domains, domain) {
			return nil, errors.Wrapf(ErrInvalidPartition, "%s can't be partitioned by affinity domain %s", d, domain)
		}
		n := min(maxSubDevices, computeUnits)
		if n == 0 {
			return nil, errors.Wrapf(ErrInvalidPartition, "%s can't be partitioned", d)
		}
		counts = slices.Repeat([]uint32{computeUnits / n}, int(n))

	default:
		return nil, errors.Wrapf(ErrInvalidPartition, "unknown partition property %s", p.property)
	}
	if len(counts) == 0 {
		return nil, errors.Wrapf(ErrInvalidPartition, "%s created no sub-devices", p)
	}

	subDevices := make(DeviceList, len(counts))
	for idx, count := range counts {
		sub := &deviceObject{
			platform:     obj.platform,
			raw:          obj.raw,
			parent:       obj,
			partition:    p.property,
			affinity:     domain,
			computeUnits: count,
		}
		sub.refs.init()
		subDevices[idx] = Device{sub}
	}
	klog.V(1).Infof("partitioned %s %s in %d sub-devices", d, p, len(subDevices))
	return subDevices, nil
}
