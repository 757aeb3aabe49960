package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"ast3d/internal/astsource"
	"ast3d/internal/codec"
	"ast3d/internal/domain"
	"ast3d/internal/logging"
	"ast3d/internal/repository"
)

// ParseResult is a source parse that was loaded into the scene
type ParseResult struct {
	Language     astsource.Language `json:"language"`
	Truncated    bool               `json:"truncated"`
	Declarations int                `json:"declarations"`
	Dependencies int                `json:"dependencies"`
	Rebuild      *RebuildInfo       `json:"rebuild"`
}

// GraphService loads graphs into the engine from request bodies, source
// code, files and stored snapshots
type GraphService struct {
	engine *Engine
	repo   repository.SnapshotStore
	parser *astsource.Parser
	bus    *EventBus
	logger *zap.Logger
}

// NewGraphService creates a new graph service. repo may be nil, in which
// case snapshot operations fail.
func NewGraphService(engine *Engine, repo repository.SnapshotStore, parser *astsource.Parser, bus *EventBus, logger *zap.Logger) *GraphService {
	return &GraphService{
		engine: engine,
		repo:   repo,
		parser: parser,
		bus:    bus,
		logger: logging.OrNop(logger).Named("graph"),
	}
}

// Load rebuilds the scene from g
func (s *GraphService) Load(ctx context.Context, g *domain.Graph) (*RebuildInfo, error) {
	return Query(ctx, s.engine, func(sess *Session) (*RebuildInfo, error) {
		return sess.Rebuild(g)
	})
}

// Current returns the graph of the last rebuild
func (s *GraphService) Current(ctx context.Context) (*domain.Graph, error) {
	return Query(ctx, s.engine, func(sess *Session) (*domain.Graph, error) {
		return sess.Graph(), nil
	})
}

// Import parses r in format ("json" or "yaml") and loads it
func (s *GraphService) Import(ctx context.Context, r io.Reader, format string) (*RebuildInfo, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}
	g, err := decode(c, r)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", format, err)
	}
	return s.Load(ctx, g)
}

// decode parses a graph document. A hierarchy given only as children lists
// gets its parent-child edges derived.
func decode(c codec.Codec, r io.Reader) (*domain.Graph, error) {
	g, err := c.Parse(r)
	if err != nil {
		return nil, err
	}
	g.LinkHierarchy()
	return g, nil
}

// Export writes the current graph to w in format
func (s *GraphService) Export(ctx context.Context, w io.Writer, format string) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return err
	}
	g, err := s.Current(ctx)
	if err != nil {
		return err
	}
	return c.Export(g, w)
}

// ParseSource parses src with the tree-sitter grammar for lang and loads the result
func (s *GraphService) ParseSource(ctx context.Context, lang astsource.Language, src []byte) (*ParseResult, error) {
	res, err := s.parser.Parse(ctx, lang, src)
	if err != nil {
		return nil, err
	}
	return s.loadParsed(ctx, res)
}

// LoadFile loads a graph file (.json, .yaml, .yml) or parses a source file
// in a supported language
func (s *GraphService) LoadFile(ctx context.Context, path string) (*ParseResult, error) {
	if c, err := codec.ForPath(path); err == nil {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open graph file: %w", err)
		}
		defer f.Close()

		g, err := decode(c, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		info, err := s.Load(ctx, g)
		if err != nil {
			return nil, err
		}
		return &ParseResult{Rebuild: info}, nil
	}

	res, err := s.parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.loadParsed(ctx, res)
}

func (s *GraphService) loadParsed(ctx context.Context, res *astsource.Result) (*ParseResult, error) {
	info, err := s.Load(ctx, res.Graph)
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		Language:     res.Language,
		Truncated:    res.Truncated,
		Declarations: res.Declarations,
		Dependencies: res.Dependencies,
		Rebuild:      info,
	}, nil
}

func (s *GraphService) store() (repository.SnapshotStore, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("snapshot store not configured")
	}
	return s.repo, nil
}

// SaveSnapshot stores the current graph and template under name
func (s *GraphService) SaveSnapshot(ctx context.Context, name, description string) (*domain.Snapshot, error) {
	repo, err := s.store()
	if err != nil {
		return nil, err
	}
	snap, err := Query(ctx, s.engine, func(sess *Session) (*domain.Snapshot, error) {
		return &domain.Snapshot{
			Name:        name,
			Description: description,
			Template:    sess.Style().Template,
			Graph:       sess.Graph(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, snap); err != nil {
		return nil, err
	}
	s.bus.Publish(Event{Type: EventSnapshotSaved, Payload: map[string]string{"id": snap.ID, "name": snap.Name}})
	return snap, nil
}

// ListSnapshots returns stored snapshot summaries
func (s *GraphService) ListSnapshots(ctx context.Context) ([]domain.Snapshot, error) {
	repo, err := s.store()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// GetSnapshot returns one snapshot with its graph
func (s *GraphService) GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	repo, err := s.store()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// DeleteSnapshot removes a stored snapshot
func (s *GraphService) DeleteSnapshot(ctx context.Context, id string) error {
	repo, err := s.store()
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(Event{Type: EventSnapshotDeleted, Payload: map[string]string{"id": id}})
	return nil
}

// LoadSnapshot rebuilds the scene from a stored snapshot, applying its
// template first when it differs from the active one
func (s *GraphService) LoadSnapshot(ctx context.Context, id string) (*RebuildInfo, error) {
	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return Query(ctx, s.engine, func(sess *Session) (*RebuildInfo, error) {
		if snap.Template != "" && snap.Template != sess.Style().Template {
			if err := sess.style.ApplyTemplate(snap.Template); err != nil {
				s.logger.Warn("snapshot template not applied",
					zap.String("template", snap.Template), zap.Error(err))
			}
		}
		return sess.Rebuild(snap.Graph)
	})
}
