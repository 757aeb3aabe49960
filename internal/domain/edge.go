package domain

// RelationshipType classifies an edge between two graph nodes
type RelationshipType string

const (
	RelationshipParentChild RelationshipType = "parent-child"
	RelationshipDependency  RelationshipType = "dependency"
	RelationshipOther       RelationshipType = "other"
)

// Valid reports whether r is one of the known relationship types
func (r RelationshipType) Valid() bool {
	switch r {
	case RelationshipParentChild, RelationshipDependency, RelationshipOther:
		return true
	}
	return false
}

// GraphEdge connects Source to Target. Direction is semantic only.
type GraphEdge struct {
	Source           string           `json:"source" yaml:"source"`
	Target           string           `json:"target" yaml:"target"`
	RelationshipType RelationshipType `json:"relationshipType" yaml:"relationship_type"`
}

// NewGraphEdge creates an edge, defaulting an empty relationship to "other"
func NewGraphEdge(source, target string, rel RelationshipType) GraphEdge {
	if rel == "" {
		rel = RelationshipOther
	}
	return GraphEdge{
		Source:           source,
		Target:           target,
		RelationshipType: rel,
	}
}

// IsParentChild reports whether the edge is a hierarchy edge
func (e GraphEdge) IsParentChild() bool {
	return e.RelationshipType == RelationshipParentChild
}

// Touches reports whether id is either endpoint
func (e GraphEdge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

// Other returns the endpoint opposite id, or "" if id is not an endpoint
func (e GraphEdge) Other(id string) string {
	switch id {
	case e.Source:
		return e.Target
	case e.Target:
		return e.Source
	}
	return ""
}
