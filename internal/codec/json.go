package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"ast3d/internal/domain"
)

// JSONCodec handles JSON import/export. Field names follow the graph
// source convention: scopeLevel, relationshipType.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse decodes a graph from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Graph, error) {
	g := domain.NewGraph()
	if err := json.NewDecoder(r).Decode(g); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON: %w", ErrMalformed, err)
	}
	return g, nil
}

// Export writes the graph as indented JSON
func (c *JSONCodec) Export(g *domain.Graph, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(g); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
