// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package info defines the capability queries that can be asked of platforms, devices, contexts and queues,
// the types of their answers, and how those answers are rendered.
//
// Each owner kind has its own parameter type (DeviceParam, PlatformParam, ContextParam and QueueParam), so a
// device query can never be issued against a platform: it doesn't compile.
//
// Every parameter has one Entry in a static table, which declares:
//
//   - Its canonical name (e.g.: "max_compute_units") and a human label (e.g.: "Max compute units").
//   - The ValueType of its answer.
//   - The Rule used to marshal raw backend answers into that type.
//   - Optionally, the documented answer for the host device, used without consulting any backend.
//
// Adding a query only requires a new parameter constant and a table entry.
package info

import (
	"fmt"

	"github.com/gomlx/exceptions"
)

// OwnerKind is the kind of object a query is asked of.
type OwnerKind int

const (
	OwnerPlatform OwnerKind = iota
	OwnerDevice
	OwnerContext
	OwnerQueue
)

var ownerKindNames = []string{"platform", "device", "context", "queue"}

// String implements fmt.Stringer.
func (k OwnerKind) String() string {
	if k < 0 || int(k) >= len(ownerKindNames) {
		return fmt.Sprintf("OwnerKind(%d)", int(k))
	}
	return ownerKindNames[k]
}

// Source tells where the answer of a query comes from.
type Source int

const (
	// SourceBackend queries are answered by the backend owning the object.
	SourceBackend Source = iota

	// SourceHandle queries are answered by the handle itself: references to other handles,
	// reference counts and partitioning information.
	SourceHandle
)

// Rule is how a raw backend answer is marshaled into the declared ValueType.
type Rule int

const (
	// RuleDirect accepts the canonical Go type, any integer kind for numbers and enums,
	// and canonical names for enums.
	RuleDirect Rule = iota

	// RuleSplitSpaces additionally accepts a single space-separated string for string sequences,
	// the way OpenCL reports extensions.
	RuleSplitSpaces

	// RuleBitfield additionally accepts an integer bitfield for enum sequences, decoded with the
	// OpenCL bit assignment of the enum. Unknown bits are kept as unknown values.
	RuleBitfield
)

// Entry describes one capability query.
type Entry struct {
	// Name is the canonical snake-case name of the query, also used as key in backend descriptions.
	Name string

	// Label is the human-readable name used in reports.
	Label string

	// Type of the answer.
	Type ValueType

	// Rule used to marshal raw backend answers.
	Rule Rule

	// Source of the answer.
	Source Source

	// HostDefault, if not nil, is the documented answer for the host device/platform: the query has no
	// meaningful host value, and no backend is consulted.
	HostDefault any

	// SubDeviceOnly queries are only valid on partitioned devices: asking them of any other device
	// is an error the caller is expected to handle.
	SubDeviceOnly bool

	// Bytes marks sizes measured in bytes, so reports can humanize them.
	Bytes bool
}

// lookupEntry returns the entry for index idx of table, or panics with ErrInvalidQuery:
// an out-of-range parameter is a programmer error.
func lookupEntry(table []Entry, owner OwnerKind, idx int) *Entry {
	if idx < 0 || idx >= len(table) || table[idx].Name == "" {
		panic(invalidQueryf("%s parameter %d is not a known query", owner, idx))
	}
	return &table[idx]
}

// lookupByName returns the index of the entry with the given canonical name.
func lookupByName(table []Entry, name string) (int, bool) {
	for idx := range table {
		if table[idx].Name == name {
			return idx, true
		}
	}
	return 0, false
}

// checkTable is used during initialization to make sure every parameter has an entry and
// that host defaults have the declared type.
func checkTable(table []Entry, owner OwnerKind) {
	for idx, entry := range table {
		if entry.Name == "" || entry.Label == "" {
			exceptions.Panicf("%s parameter %d has no table entry", owner, idx)
		}
		if entry.HostDefault != nil {
			if err := entry.Type.check(entry.HostDefault); err != nil {
				exceptions.Panicf("%s parameter %q has an invalid host default: %v", owner, entry.Name, err)
			}
		}
	}
}
