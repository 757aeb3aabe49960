package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"ast3d/internal/domain"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse decodes a graph from YAML. An empty document is an empty graph.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Graph, error) {
	g := domain.NewGraph()
	if err := yaml.NewDecoder(r).Decode(g); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrMalformed, err)
	}
	return g, nil
}

// Export writes the graph as YAML
func (c *YAMLCodec) Export(g *domain.Graph, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(g); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
