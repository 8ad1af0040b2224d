package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

// graphVersion is the current graph artifact schema version.
const graphVersion = 1

// Graph artifact schema. Node kinds and edge relations are persisted
// as their string tags and checked on read.
type graphArtifact struct {
	Version int         `json:"version"`
	Nodes   []graphNode `json:"nodes"`
	Edges   []graphEdge `json:"edges"`
}

type graphNode struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	Preview  string         `json:"preview,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type graphEdge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

func writeGraph(path string, nodes []domain.Node, edges []domain.Edge) error {
	artifact := graphArtifact{
		Version: graphVersion,
		Nodes:   make([]graphNode, len(nodes)),
		Edges:   make([]graphEdge, len(edges)),
	}
	for i, n := range nodes {
		artifact.Nodes[i] = graphNode{
			ID:       n.ID,
			Kind:     string(n.Kind),
			Preview:  n.Preview,
			Metadata: n.Metadata,
		}
	}
	for i, e := range edges {
		artifact.Edges[i] = graphEdge{
			Source:   e.Source,
			Target:   e.Target,
			Relation: string(e.Relation),
		}
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling graph: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing graph file: %w", err)
	}
	return nil
}

// readGraph returns the persisted nodes and edges in artifact order.
// Unknown kind or relation tags map to domain.ErrCorruptIndex.
func readGraph(path string) ([]domain.Node, []domain.Edge, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: graph artifact missing", domain.ErrCorruptIndex)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading graph file: %w", err)
	}

	var artifact graphArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, nil, fmt.Errorf("%w: graph artifact: %v", domain.ErrCorruptIndex, err)
	}
	if artifact.Version != graphVersion {
		return nil, nil, fmt.Errorf("%w: unsupported graph artifact version %d",
			domain.ErrCorruptIndex, artifact.Version)
	}

	nodes := make([]domain.Node, len(artifact.Nodes))
	for i, n := range artifact.Nodes {
		kind := domain.NodeKind(n.Kind)
		if !kind.Valid() {
			return nil, nil, fmt.Errorf("%w: unknown node kind %q", domain.ErrCorruptIndex, n.Kind)
		}
		nodes[i] = domain.Node{
			ID:       n.ID,
			Kind:     kind,
			Preview:  n.Preview,
			Metadata: n.Metadata,
		}
	}

	edges := make([]domain.Edge, len(artifact.Edges))
	for i, e := range artifact.Edges {
		relation := domain.Relation(e.Relation)
		if !relation.Valid() {
			return nil, nil, fmt.Errorf("%w: unknown edge relation %q", domain.ErrCorruptIndex, e.Relation)
		}
		edges[i] = domain.Edge{
			Source:   e.Source,
			Target:   e.Target,
			Relation: relation,
		}
	}

	return nodes, edges, nil
}
