// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Maps text to a fixed-length vector
//   - VectorIndex: Stores vectors and answers top-K similarity queries
//   - GenerationService: Synthesises an answer from context and a question
//   - PersonaStore: Read-only persona lookup
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DocumentStore: Local ledger of ingested documents. Without it,
//     the documents listing is unavailable but ingestion still works.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
