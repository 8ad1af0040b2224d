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
//   - VectorIndex: Exact k-nearest-neighbour vector storage/search
//   - KnowledgeGraph: Directed labeled graph over documents and entities
//   - EntityExtractor: Maps text to candidate entity strings
//   - SnapshotStore: Persists and restores the engine snapshot
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, vector
//     and hybrid search are disabled.
//   - GenerationService: Text generation. Without it, answer generation
//     is disabled and queries return raw retrieval results.
//   - DocumentLoader: Loads document chunks from the filesystem. Only
//     needed when indexing, not when querying a restored snapshot.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or extractor package
package driven
