package info

import (
	"fmt"
	"strconv"
	"strings"
)

// NoneString is how empty strings and empty sequences are rendered.
const NoneString = "none"

// Format renders a Value in its canonical human/machine-readable form:
//
//   - booleans are "true" or "false";
//   - empty strings and empty sequences are "none";
//   - enums are their canonical names, or "<hex> (unknown value)" for values outside the enumeration;
//   - ID3 and sequences are their elements rendered and joined by a single space;
//   - handles are a short label, e.g. "SYCL host device" or "SYCL OpenCL platform".
//
// It is a pure function: the same Value always renders the same way.
func Format(v Value) string {
	if !v.set {
		return "<invalid>"
	}
	switch data := v.data.(type) {
	case bool:
		if data {
			return "true"
		}
		return "false"
	case uint32:
		return strconv.FormatUint(uint64(data), 10)
	case uint64:
		return strconv.FormatUint(data, 10)
	case string:
		if data == "" {
			return NoneString
		}
		return data
	case []string:
		return joinFormatted(data, func(s string) string { return s })
	case ID3:
		return joinFormatted(data[:], func(u uint64) string { return strconv.FormatUint(u, 10) })
	case Enum:
		return data.String()
	case []FPConfig:
		return joinEnums(data)
	case []ExecutionCapability:
		return joinEnums(data)
	case []PartitionProperty:
		return joinEnums(data)
	case []PartitionAffinityDomain:
		return joinEnums(data)
	case Handle:
		return HandleLabel(data)
	case HandleList:
		return joinFormatted(data.Handles(), HandleLabel)
	}
	// Not reachable for values built with NewValue.
	return fmt.Sprintf("%v", v.data)
}

// HandleLabel is the short label of a handle: it distinguishes the host pseudo-backend from the
// backend-provided objects, and never exposes identifiers.
func HandleLabel(h Handle) string {
	if h.IsHost() {
		return fmt.Sprintf("SYCL host %s", h.Kind())
	}
	return fmt.Sprintf("SYCL %s %s", h.BackendName(), h.Kind())
}

func joinFormatted[T any](list []T, format func(T) string) string {
	if len(list) == 0 {
		return NoneString
	}
	parts := make([]string, len(list))
	for idx, element := range list {
		parts[idx] = format(element)
	}
	return strings.Join(parts, " ")
}

func joinEnums[E Enum](list []E) string {
	return joinFormatted(list, func(e E) string { return e.String() })
}
