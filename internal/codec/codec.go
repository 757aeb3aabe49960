// Package codec reads and writes graphs in interchange formats.
package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"ast3d/internal/domain"
)

// ErrUnknownFormat is returned for a format no codec handles
var ErrUnknownFormat = errors.New("unknown graph format")

// ErrMalformed wraps decode failures of graph input
var ErrMalformed = errors.New("malformed graph")

// Importer decodes a graph
type Importer interface {
	Parse(r io.Reader) (*domain.Graph, error)
	Format() string
}

// Exporter encodes a graph
type Exporter interface {
	Export(g *domain.Graph, w io.Writer) error
	Format() string
}

// Codec both decodes and encodes one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for "json" or "yaml" ("yml" accepted)
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ForPath picks a codec from a file extension
func ForPath(path string) (Codec, error) {
	return ForFormat(filepath.Ext(path))
}
