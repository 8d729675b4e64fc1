// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package info

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// ValueType is the declared type of the answer of a query.
//
// Each ValueType has one canonical Go type, listed next to it, which is what Value.Any returns.
type ValueType int

const (
	TypeBool                  ValueType = iota // bool
	TypeUint32                                 // uint32
	TypeUint64                                 // uint64
	TypeSize                                   // uint64
	TypeString                                 // string
	TypeStrings                                // []string
	TypeID3                                    // ID3
	TypeDeviceType                             // DeviceType
	TypeFPConfigs                              // []FPConfig
	TypeGlobalMemCacheType                     // GlobalMemCacheType
	TypeLocalMemType                           // LocalMemType
	TypeExecutionCapabilities                  // []ExecutionCapability
	TypePartitionProperty                      // PartitionProperty
	TypePartitionProperties                    // []PartitionProperty
	TypeAffinityDomain                         // PartitionAffinityDomain
	TypeAffinityDomains                        // []PartitionAffinityDomain
	TypePlatform                               // Handle of kind OwnerPlatform
	TypeDevice                                 // Handle of kind OwnerDevice
	TypeContext                                // Handle of kind OwnerContext
	TypeDevices                                // HandleList of devices
)

var valueTypeNames = []string{
	"bool", "uint32", "uint64", "size", "string", "strings", "id3", "device_type", "fp_configs",
	"global_mem_cache_type", "local_mem_type", "execution_capabilities", "partition_property",
	"partition_properties", "affinity_domain", "affinity_domains", "platform", "device", "context", "devices",
}

// String implements fmt.Stringer.
func (t ValueType) String() string {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
	return valueTypeNames[t]
}

// Handle is implemented by the platform, device, context and queue handles, so they can be
// carried and rendered as answers of queries.
type Handle interface {
	// Kind of the handle.
	Kind() OwnerKind

	// IsHost returns whether the handle refers to the host pseudo-backend.
	IsHost() bool

	// BackendName is the name of the API the object is reached through (e.g.: "OpenCL").
	BackendName() string
}

// HandleList is implemented by sequences of handles.
type HandleList interface {
	Handles() []Handle
}

// Value is the answer to a query: a tagged union of the declared ValueType and its canonical Go value.
//
// The zero Value is invalid.
type Value struct {
	typ  ValueType
	data any
	set  bool
}

// NewValue creates a Value of the given type. It panics if data is not of the canonical Go type
// of t: that is a programmer error.
func NewValue(t ValueType, data any) Value {
	if err := t.check(data); err != nil {
		panic(errors.WithMessagef(err, "info.NewValue(%s)", t))
	}
	return Value{typ: t, data: data, set: true}
}

// Type of the value.
func (v Value) Type() ValueType { return v.typ }

// IsValid returns false for the zero Value.
func (v Value) IsValid() bool { return v.set }

// Any returns the value in its canonical Go type, see ValueType.
func (v Value) Any() any { return v.data }

// String implements fmt.Stringer, using Format.
func (v Value) String() string { return Format(v) }

// As returns the value converted to T, which must be the canonical Go type of its ValueType.
// A mismatch is a programmer error, and it panics.
func As[T any](v Value) T {
	if !v.set {
		exceptions.Panicf("info.As[%T] called on an invalid Value", *new(T))
	}
	t, ok := v.data.(T)
	if !ok {
		exceptions.Panicf("info.As[%T] called on a Value of type %s (holding %T)", t, v.typ, v.data)
	}
	return t
}

// check verifies that data is of the canonical Go type of t.
func (t ValueType) check(data any) error {
	var ok bool
	switch t {
	case TypeBool:
		_, ok = data.(bool)
	case TypeUint32:
		_, ok = data.(uint32)
	case TypeUint64, TypeSize:
		_, ok = data.(uint64)
	case TypeString:
		_, ok = data.(string)
	case TypeStrings:
		_, ok = data.([]string)
	case TypeID3:
		_, ok = data.(ID3)
	case TypeDeviceType:
		_, ok = data.(DeviceType)
	case TypeFPConfigs:
		_, ok = data.([]FPConfig)
	case TypeGlobalMemCacheType:
		_, ok = data.(GlobalMemCacheType)
	case TypeLocalMemType:
		_, ok = data.(LocalMemType)
	case TypeExecutionCapabilities:
		_, ok = data.([]ExecutionCapability)
	case TypePartitionProperty:
		_, ok = data.(PartitionProperty)
	case TypePartitionProperties:
		_, ok = data.([]PartitionProperty)
	case TypeAffinityDomain:
		_, ok = data.(PartitionAffinityDomain)
	case TypeAffinityDomains:
		_, ok = data.([]PartitionAffinityDomain)
	case TypePlatform, TypeDevice, TypeContext:
		var h Handle
		h, ok = data.(Handle)
		if ok && h.Kind() != t.handleKind() {
			return errors.Errorf("handle of kind %s given for a value of type %s", h.Kind(), t)
		}
	case TypeDevices:
		_, ok = data.(HandleList)
	default:
		return errors.Errorf("unknown value type %d", int(t))
	}
	if !ok {
		return errors.Errorf("%T is not the Go type of values of type %s", data, t)
	}
	return nil
}

func (t ValueType) handleKind() OwnerKind {
	switch t {
	case TypePlatform:
		return OwnerPlatform
	case TypeContext:
		return OwnerContext
	default:
		return OwnerDevice
	}
}

// IsHandle returns whether values of this type carry handles, which backends never answer.
func (t ValueType) IsHandle() bool {
	return t == TypePlatform || t == TypeDevice || t == TypeContext || t == TypeDevices
}

// Zero returns the zero answer of the type: 0, false, empty strings and empty sequences, and the first enumerator.
// It panics for handle types, which have no zero answer.
func (t ValueType) Zero() Value {
	var data any
	switch t {
	case TypeBool:
		data = false
	case TypeUint32:
		data = uint32(0)
	case TypeUint64, TypeSize:
		data = uint64(0)
	case TypeString:
		data = ""
	case TypeStrings:
		data = []string{}
	case TypeID3:
		data = ID3{}
	case TypeDeviceType:
		data = DeviceTypeCPU
	case TypeFPConfigs:
		data = []FPConfig{}
	case TypeGlobalMemCacheType:
		data = GlobalMemCacheNone
	case TypeLocalMemType:
		data = LocalMemNone
	case TypeExecutionCapabilities:
		data = []ExecutionCapability{}
	case TypePartitionProperty:
		data = NoPartition
	case TypePartitionProperties:
		data = []PartitionProperty{}
	case TypeAffinityDomain:
		data = AffinityNotApplicable
	case TypeAffinityDomains:
		data = []PartitionAffinityDomain{}
	default:
		exceptions.Panicf("values of type %s have no zero answer", t)
	}
	return NewValue(t, data)
}

// Marshal converts a raw backend answer to a Value of the entry's declared type, following the entry's Rule.
//
// Malformed raw answers (wrong kind, overflow, unknown enum names) return an error.
func (e *Entry) Marshal(raw any) (Value, error) {
	if e.Type.IsHandle() {
		return Value{}, errors.Errorf("query %q answers handles, it can't be marshaled from a backend answer", e.Name)
	}
	data, err := marshalRaw(e.Type, e.Rule, raw)
	if err != nil {
		return Value{}, errors.WithMessagef(err, "query %q", e.Name)
	}
	return NewValue(e.Type, data), nil
}

func marshalRaw(t ValueType, rule Rule, raw any) (any, error) {
	switch t {
	case TypeBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		if u, ok := toUint64(raw); ok {
			return u != 0, nil
		}
	case TypeUint32:
		if u, ok := toUint64(raw); ok {
			if u > math.MaxUint32 {
				return nil, errors.Errorf("value %d overflows uint32", u)
			}
			return uint32(u), nil
		}
	case TypeUint64, TypeSize:
		if u, ok := toUint64(raw); ok {
			return u, nil
		}
	case TypeString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case TypeStrings:
		return marshalStrings(rule, raw)
	case TypeID3:
		return marshalID3(raw)
	case TypeDeviceType:
		return marshalEnum[DeviceType](deviceTypeNames, raw)
	case TypeFPConfigs:
		return marshalEnumList[FPConfig](fpConfigNames, fpConfigBits, rule, raw)
	case TypeGlobalMemCacheType:
		return marshalEnum[GlobalMemCacheType](globalMemCacheTypeNames, raw)
	case TypeLocalMemType:
		return marshalEnum[LocalMemType](localMemTypeNames, raw)
	case TypeExecutionCapabilities:
		return marshalEnumList[ExecutionCapability](executionCapabilityNames, executionCapabilityBits, rule, raw)
	case TypePartitionProperty:
		return marshalEnum[PartitionProperty](partitionPropertyNames, raw)
	case TypePartitionProperties:
		return marshalEnumList[PartitionProperty](partitionPropertyNames, nil, rule, raw)
	case TypeAffinityDomain:
		return marshalEnum[PartitionAffinityDomain](partitionAffinityDomainNames, raw)
	case TypeAffinityDomains:
		return marshalEnumList[PartitionAffinityDomain](partitionAffinityDomainNames, partitionAffinityDomainBits, rule, raw)
	}
	return nil, errors.Errorf("can't marshal %T to a value of type %s", raw, t)
}

func widenUnsigned[T constraints.Unsigned](x T) (uint64, bool) { return uint64(x), true }

func widenSigned[T constraints.Signed](x T) (uint64, bool) {
	if x < 0 {
		return 0, false
	}
	return uint64(x), true
}

// toUint64 converts any non-negative integer kind, or an integral float (as decoded from YAML/JSON), to uint64.
func toUint64(raw any) (uint64, bool) {
	switch x := raw.(type) {
	case uint:
		return widenUnsigned(x)
	case uint8:
		return widenUnsigned(x)
	case uint16:
		return widenUnsigned(x)
	case uint32:
		return widenUnsigned(x)
	case uint64:
		return widenUnsigned(x)
	case uintptr:
		return widenUnsigned(x)
	case int:
		return widenSigned(x)
	case int8:
		return widenSigned(x)
	case int16:
		return widenSigned(x)
	case int32:
		return widenSigned(x)
	case int64:
		return widenSigned(x)
	case float64:
		if x >= 0 && x == math.Trunc(x) && x < math.MaxUint64 {
			return uint64(x), true
		}
	}
	return 0, false
}

func marshalStrings(rule Rule, raw any) ([]string, error) {
	switch x := raw.(type) {
	case []string:
		return x, nil
	case string:
		if rule == RuleSplitSpaces {
			return strings.Fields(x), nil
		}
		if x == "" {
			return []string{}, nil
		}
		return []string{x}, nil
	case []any:
		list := make([]string, 0, len(x))
		for idx, element := range x {
			s, ok := element.(string)
			if !ok {
				return nil, errors.Errorf("element #%d is a %T, not a string", idx, element)
			}
			list = append(list, s)
		}
		return list, nil
	case nil:
		return []string{}, nil
	}
	return nil, errors.Errorf("can't marshal %T to a list of strings", raw)
}

func marshalID3(raw any) (ID3, error) {
	var id ID3
	switch x := raw.(type) {
	case ID3:
		return x, nil
	case [3]uint64:
		return ID3(x), nil
	case []uint64:
		if len(x) == 3 {
			copy(id[:], x)
			return id, nil
		}
	case []any:
		if len(x) == 3 {
			for idx, element := range x {
				u, ok := toUint64(element)
				if !ok {
					return id, errors.Errorf("component #%d is not a non-negative integer (%T)", idx, element)
				}
				id[idx] = u
			}
			return id, nil
		}
	}
	return id, errors.Errorf("can't marshal %T (%v) to a 3-component id", raw, raw)
}

func marshalEnum[E ~int](names []string, raw any) (E, error) {
	switch x := raw.(type) {
	case E:
		return x, nil
	case string:
		return enumFromName[E](names, x)
	}
	if u, ok := toUint64(raw); ok {
		if u > math.MaxInt32 {
			return 0, errors.Errorf("enum value %#x out of range", u)
		}
		return E(u), nil
	}
	return 0, errors.Errorf("can't marshal %T to an enum", raw)
}

func marshalEnumList[E ~int](names []string, bits []uint64, rule Rule, raw any) ([]E, error) {
	switch x := raw.(type) {
	case []E:
		return x, nil
	case nil:
		return []E{}, nil
	case []string:
		list := make([]E, 0, len(x))
		for _, name := range x {
			e, err := enumFromName[E](names, name)
			if err != nil {
				return nil, err
			}
			list = append(list, e)
		}
		return list, nil
	case []any:
		list := make([]E, 0, len(x))
		for idx, element := range x {
			e, err := marshalEnum[E](names, element)
			if err != nil {
				return nil, errors.WithMessagef(err, "element #%d", idx)
			}
			list = append(list, e)
		}
		return list, nil
	}
	if rule == RuleBitfield && bits != nil {
		if u, ok := toUint64(raw); ok {
			return decodeBits[E](bits, u), nil
		}
	}
	return nil, errors.Errorf("can't marshal %T to a list of enums", raw)
}

// decodeBits decodes an OpenCL bitfield into enumerators, in declaration order.
// Bits without an enumerator become unknown values carrying the bit itself.
func decodeBits[E ~int](bits []uint64, field uint64) []E {
	list := make([]E, 0, len(bits))
	for idx, bit := range bits {
		if bit != 0 && field&bit != 0 {
			list = append(list, E(idx))
			field &^= bit
		}
	}
	for bit := uint64(1); field != 0 && bit != 0; bit <<= 1 {
		if field&bit != 0 {
			list = append(list, E(bit))
			field &^= bit
		}
	}
	return list
}
