// Package domain defines the core business entities for ppm.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Manifest: Project identity, declared packages and scripts
//   - PackageRef: A parsed name[==version] specifier
//   - BatchReport: Ordered per-package outcomes of a batch operation
//   - HistoryEntry: One journaled package operation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
