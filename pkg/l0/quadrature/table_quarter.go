//go:build !coarse
// +build !coarse

package quadrature

// Coarse reports whether the full count table is compiled in.
const Coarse = false

var defaultTable = &QuarterTable
