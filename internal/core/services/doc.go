// Package services implements the core business logic for Strata.
//
// The central type is RetrievalEngine: one explicit aggregate owning
// the document corpus, the vector index, and the knowledge graph. All
// engine operations go through it; there is no ambient state.
//
// Services depend on driven ports (interfaces) and implement driving
// ports. They contain the index construction, retrieval, fusion, and
// persistence orchestration.
package services
