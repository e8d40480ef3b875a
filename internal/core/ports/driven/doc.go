// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - DocumentSource: Produces page text from a paper on disk
//   - Segmenter: Splits paper text into named sections
//   - Chunker: Splits blocks of text into overlapping chunks
//   - EmbeddingService: Turns text into unit-length vectors
//   - VectorIndex: Stores vectors with their chunks and answers k-NN queries
//   - IndexStore: Encodes a vector index snapshot to durable storage
//   - ConfigStore: Application configuration
//   - AIConfigValidator: Connectivity checks for embedding settings
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, normaliser, or postprocessor package
package driven
