package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ast3d/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// Snapshot Row Scanner
// ============================================================================
//
// Column order must match between snapshotColumns, scanArgs() and every
// SELECT using snapshotColumns. summaryColumns is the same list without the
// graph payload.

// snapshotRow holds all columns from a snapshot query for scanning
type snapshotRow struct {
	ID          string
	Name        string
	Description sql.NullString
	Template    sql.NullString
	NodeCount   int
	EdgeCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	GraphJSON   sql.NullString
}

const summaryColumns = `id, name, description, template, node_count, edge_count, created_at, updated_at`

const snapshotColumns = summaryColumns + `, graph`

// summaryArgs returns pointers for summaryColumns
func (r *snapshotRow) summaryArgs() []interface{} {
	return []interface{}{
		&r.ID,          // 1
		&r.Name,        // 2
		&r.Description, // 3
		&r.Template,    // 4
		&r.NodeCount,   // 5
		&r.EdgeCount,   // 6
		&r.CreatedAt,   // 7
		&r.UpdatedAt,   // 8
	}
}

// scanArgs returns pointers for snapshotColumns
func (r *snapshotRow) scanArgs() []interface{} {
	return append(r.summaryArgs(), &r.GraphJSON)
}

// toDomain converts the scanned row. The graph is left nil for summary rows.
func (r *snapshotRow) toDomain() (*domain.Snapshot, error) {
	s := &domain.Snapshot{
		ID:          r.ID,
		Name:        r.Name,
		Description: nullToString(r.Description),
		Template:    nullToString(r.Template),
		NodeCount:   r.NodeCount,
		EdgeCount:   r.EdgeCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.GraphJSON.Valid && r.GraphJSON.String != "" {
		s.Graph = domain.NewGraph()
		if err := json.Unmarshal([]byte(r.GraphJSON.String), s.Graph); err != nil {
			return nil, fmt.Errorf("unmarshal graph: %w", err)
		}
	}
	return s, nil
}

// ============================================================================
// Snapshot Write Helpers
// ============================================================================

// snapshotInsertArgs prepares arguments for the snapshot UPSERT
// Returns: id, name, description, template, node_count, edge_count, graph,
//
//	created_at, updated_at
func snapshotInsertArgs(s *domain.Snapshot) ([]interface{}, error) {
	graph := s.Graph
	if graph == nil {
		graph = domain.NewGraph()
	}
	data, err := json.Marshal(graph)
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	return []interface{}{
		s.ID,
		s.Name,
		stringToNull(s.Description),
		stringToNull(s.Template),
		len(graph.Nodes),
		len(graph.Edges),
		string(data),
		s.CreatedAt,
		s.UpdatedAt,
	}, nil
}

// typeCounts tallies nodes per type for the snapshot_types index
func typeCounts(g *domain.Graph) map[string]int {
	counts := make(map[string]int)
	if g == nil {
		return counts
	}
	for _, n := range g.Nodes {
		counts[n.Type]++
	}
	return counts
}
