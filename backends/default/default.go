// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package _default includes the default backends, namely host and static.
//
// To use it simply include:
//
//	import _ "github.com/gomlx/devinfo/backends/default"
package _default

import (
	_ "github.com/gomlx/devinfo/backends/host"
	_ "github.com/gomlx/devinfo/backends/static"
)
