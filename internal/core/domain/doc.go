// Package domain defines the core business entities for SageSearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Raw source text to be ingested
//   - Chunk: An overlapping character window of a cleaned document
//   - IndexRecord: What is persisted in the vector index
//   - Match: A similarity hit returned by the vector index
//   - Persona: A named system-prompt profile
//   - Answer: The result of a grounded question-answering run
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
