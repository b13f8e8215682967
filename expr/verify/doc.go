// Package verify provides invariant checks for expression buffers.
//
// # Overview
//
// The checks back the exprctl verify command and the tests of packages that
// produce buffers. Each one returns a *ValidationError describing the first
// violation it finds, or nil.
//
// Validation categories:
//   - Structure: discriminants, reserved bits, name fields, spans (format.CheckRun)
//   - Span consistency: every composite's operands tile its span exactly
//   - Flag consistency: cached flags match the flags derived from content
//   - Normalization: NFC names, symbol domains
//
// # Quick Start
//
// Validate all invariants in one call:
//
//	data, _ := os.ReadFile("cells.bin")
//	if err := verify.AllInvariants(data); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// Checks other than Structure take a View and assume a structurally valid
// buffer, so they can run against memory-mapped snapshots without copying.
package verify
