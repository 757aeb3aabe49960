package domain

import "time"

// Snapshot is a stored graph with its metadata. Graph is nil in list results.
type Snapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=128"`
	Description string    `json:"description,omitempty" validate:"max=1024"`
	Template    string    `json:"template,omitempty"`
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
	Graph       *Graph    `json:"graph,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
