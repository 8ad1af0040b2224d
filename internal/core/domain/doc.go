// Package domain defines the core business entities for Strata.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An indexed chunk of text with metadata and an embedding
//   - Node/Edge: The knowledge graph's typed nodes and labeled edges
//   - SearchMode/SearchOptions/SearchResult: The query surface
//   - Snapshot: One consistent, fully-built engine state for persistence
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
