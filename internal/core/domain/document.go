package domain

// MetadataKeySource is the metadata key that records where a document
// chunk came from. Every loaded document carries it; same_source graph
// edges are derived from it.
const MetadataKeySource = "source"

// PreviewLength is the number of content characters stored on a
// document graph node.
const PreviewLength = 200

// Document represents one indexed text chunk.
// Content is immutable after loading; the embedding is attached during
// vector index construction and replaced wholesale on re-index.
type Document struct {
	// ID is the unique identifier, assigned by the loader.
	ID string

	// Content is the full UTF-8 text of the chunk.
	Content string

	// Metadata contains arbitrary key-value pairs. At minimum it holds
	// the "source" key identifying the originating file.
	Metadata map[string]any

	// Embedding is the vector representation, present once the document
	// has been indexed. Its length always equals the vector index's
	// configured dimensionality.
	Embedding []float32
}

// Source returns the document's source metadata value, or "" if unset.
func (d *Document) Source() string {
	if d.Metadata == nil {
		return ""
	}
	s, _ := d.Metadata[MetadataKeySource].(string)
	return s
}

// Preview returns the first PreviewLength characters of the content.
func (d *Document) Preview() string {
	runes := []rune(d.Content)
	if len(runes) <= PreviewLength {
		return d.Content
	}
	return string(runes[:PreviewLength])
}
