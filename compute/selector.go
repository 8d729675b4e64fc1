package compute

import (
	"fmt"
	"strings"

	"github.com/gomlx/devinfo/info"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Policy for selecting a device.
type Policy int

const (
	// PolicyAutomatic prefers, in order: gpu, accelerator, cpu, custom devices and the host device.
	PolicyAutomatic Policy = iota
	PolicyCPU
	PolicyGPU
	PolicyAccelerator
	PolicyHost
)

var policyNames = []string{"automatic", "cpu", "gpu", "accelerator", "host"}

// String implements fmt.Stringer.
func (p Policy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyNames[p]
}

// PolicyString parses a policy name, case-insensitive. "default" is an alias to "automatic".
func PolicyString(name string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "default" || name == "" {
		return PolicyAutomatic, nil
	}
	for idx, n := range policyNames {
		if n == name {
			return Policy(idx), nil
		}
	}
	return 0, errors.Errorf("unknown device selection policy %q, valid policies are %q", name, policyNames)
}

// automaticScores of each device type for PolicyAutomatic: the highest wins.
var automaticScores = map[info.DeviceType]int{
	info.DeviceTypeGPU:         500,
	info.DeviceTypeAccelerator: 400,
	info.DeviceTypeCPU:         300,
	info.DeviceTypeCustom:      200,
	info.DeviceTypeHost:        100,
}

var policyDeviceTypes = map[Policy]info.DeviceType{
	PolicyCPU:         info.DeviceTypeCPU,
	PolicyGPU:         info.DeviceTypeGPU,
	PolicyAccelerator: info.DeviceTypeAccelerator,
}

// score of a device for the policy. Devices with a negative score are never selected.
func score(d Device, policy Policy) int {
	if available, err := DeviceInfo(d, DeviceIsAvailable); err != nil || !available {
		klog.V(1).Infof("skipping %s: not available", d)
		return -1
	}
	if policy == PolicyHost {
		if d.IsHost() {
			return 1
		}
		return -1
	}
	deviceType, err := DeviceInfo(d, DeviceType)
	if err != nil {
		klog.Warningf("device selection: skipping %s: %v", d, err)
		return -1
	}
	if policy == PolicyAutomatic {
		if s, found := automaticScores[deviceType]; found {
			return s
		}
		return -1
	}
	if deviceType == policyDeviceTypes[policy] {
		return 1
	}
	return -1
}

// SelectDevice returns the root device that best matches the policy. Ties are broken by discovery order.
//
// It returns ErrNoMatchingDevice if no available device matches: it never falls back to another policy.
func (r *Runtime) SelectDevice(policy Policy) (Device, error) {
	if policy < 0 || int(policy) >= len(policyNames) {
		return Device{}, errors.Errorf("invalid device selection policy %s", policy)
	}
	var (
		best      Device
		bestScore = -1
	)
	for _, d := range r.Devices() {
		if s := score(d, policy); s > bestScore {
			best, bestScore = d, s
		}
	}
	if bestScore < 0 {
		return Device{}, errors.Wrapf(ErrNoMatchingDevice, "policy %s", policy)
	}
	klog.V(1).Infof("policy %s selected %s", policy, best)
	return best, nil
}

// NewQueueForPolicy selects a device with SelectDevice, and creates a queue on it with a new context
// holding only the selected device.
func (r *Runtime) NewQueueForPolicy(policy Policy) (Queue, error) {
	dev, err := r.SelectDevice(policy)
	if err != nil {
		return Queue{}, err
	}
	ctx, err := NewContext(dev)
	if err != nil {
		return Queue{}, err
	}
	return NewQueue(ctx, dev)
}
