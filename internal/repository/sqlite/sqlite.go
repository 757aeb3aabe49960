// Package sqlite stores named graph snapshots in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"ast3d/internal/domain"
	"ast3d/internal/logging"
	"ast3d/internal/repository"
)

var _ repository.SnapshotStore = (*Repository)(nil)

// Repository implements repository.SnapshotStore
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens (and migrates) the database at dbPath. ":memory:" is accepted.
func New(dbPath string, logger *zap.Logger) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	repo := &Repository{db: db, logger: logging.OrNop(logger).Named("sqlite")}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	repo.logger.Debug("snapshot store ready", zap.String("path", dbPath))
	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		template TEXT,
		node_count INTEGER NOT NULL DEFAULT 0,
		edge_count INTEGER NOT NULL DEFAULT 0,
		graph JSON NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshot_types (
		snapshot_id TEXT NOT NULL,
		node_type TEXT NOT NULL,
		node_count INTEGER NOT NULL,
		PRIMARY KEY (snapshot_id, node_type),
		FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name);
	CREATE INDEX IF NOT EXISTS idx_snapshot_types_type ON snapshot_types(node_type);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Save inserts or replaces a snapshot. An empty ID gets a fresh uuid;
// CreatedAt is kept across overwrites of the same ID.
func (r *Repository) Save(ctx context.Context, s *domain.Snapshot) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("snapshot name is required")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	args, err := snapshotInsertArgs(s)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, description, template, node_count, edge_count, graph, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			template = excluded.template,
			node_count = excluded.node_count,
			edge_count = excluded.edge_count,
			graph = excluded.graph,
			updated_at = excluded.updated_at
	`, args...); err != nil {
		return fmt.Errorf("failed to upsert snapshot %s: %w", s.ID, err)
	}

	if err := r.updateTypes(ctx, tx, s); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.Graph != nil {
		s.NodeCount = len(s.Graph.Nodes)
		s.EdgeCount = len(s.Graph.Edges)
	}
	r.logger.Info("snapshot saved",
		zap.String("id", s.ID),
		zap.String("name", s.Name),
		zap.Int("nodes", s.NodeCount),
	)
	return nil
}

func (r *Repository) updateTypes(ctx context.Context, tx *sql.Tx, s *domain.Snapshot) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_types WHERE snapshot_id = ?`, s.ID); err != nil {
		return fmt.Errorf("failed to clear snapshot types: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_types (snapshot_id, node_type, node_count) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare type statement: %w", err)
	}
	defer stmt.Close()

	for nodeType, count := range typeCounts(s.Graph) {
		if _, err := stmt.ExecContext(ctx, s.ID, nodeType, count); err != nil {
			return fmt.Errorf("failed to insert type %s: %w", nodeType, err)
		}
	}
	return nil
}

// Get loads a snapshot including its graph
func (r *Repository) Get(ctx context.Context, id string) (*domain.Snapshot, error) {
	var row snapshotRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id,
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return row.toDomain()
}

// List returns snapshot summaries, most recently updated first
func (r *Repository) List(ctx context.Context) ([]domain.Snapshot, error) {
	return r.list(ctx, `SELECT `+summaryColumns+` FROM snapshots ORDER BY updated_at DESC, name`)
}

// ListByType returns summaries of snapshots containing at least one node of nodeType
func (r *Repository) ListByType(ctx context.Context, nodeType string) ([]domain.Snapshot, error) {
	return r.list(ctx, `
		SELECT `+prefixed("s", summaryColumns)+`
		FROM snapshots s
		JOIN snapshot_types t ON t.snapshot_id = s.id
		WHERE t.node_type = ?
		ORDER BY s.updated_at DESC, s.name
	`, nodeType)
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Snapshot, 0)
	for rows.Next() {
		var row snapshotRow
		if err := rows.Scan(row.summaryArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return out, nil
}

// TypeCounts returns the per-type node counts of a snapshot
func (r *Repository) TypeCounts(ctx context.Context, id string) (map[string]int, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT node_type, node_count FROM snapshot_types WHERE snapshot_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot types: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			nodeType string
			count    int
		)
		if err := rows.Scan(&nodeType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot type: %w", err)
		}
		counts[nodeType] = count
	}
	return counts, rows.Err()
}

// Delete removes a snapshot
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	r.logger.Info("snapshot deleted", zap.String("id", id))
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// prefixed qualifies every column in a comma-separated list with alias
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
