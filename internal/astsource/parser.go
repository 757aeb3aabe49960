// Package astsource turns source code into graph input for the scene engine.
//
// Each named syntax node becomes a GraphNode typed by its kind in CamelCase
// (function_declaration becomes FunctionDeclaration), with the tree root typed
// Program. Syntax nesting becomes parent-child edges. Identifiers that name a
// declaration in the same file add dependency edges to that declaration.
package astsource

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/iancoleman/strcase"
	sitter "github.com/tree-sitter/go-tree-sitter"
	"go.uber.org/zap"

	"ast3d/internal/domain"
	"ast3d/internal/logging"
)

// Options tunes graph extraction
type Options struct {
	// MaxNodes caps the graph size; zero means unlimited
	MaxNodes int `yaml:"max_nodes" json:"max_nodes" validate:"gte=0"`
	// Dependencies adds identifier-to-declaration edges
	Dependencies bool `yaml:"dependencies" json:"dependencies"`
	// MaxLabel truncates node labels
	MaxLabel int `yaml:"max_label" json:"max_label" validate:"gte=0"`
}

// DefaultOptions returns the options used by the CLI and server
func DefaultOptions() Options {
	return Options{MaxNodes: 5000, Dependencies: true, MaxLabel: 48}
}

// Result is a parsed graph plus extraction stats
type Result struct {
	Graph        *domain.Graph `json:"graph"`
	Language     Language      `json:"language"`
	Truncated    bool          `json:"truncated"`
	Declarations int           `json:"declarations"`
	Dependencies int           `json:"dependencies"`
}

// Parser extracts graphs with tree-sitter
type Parser struct {
	opts   Options
	logger *zap.Logger
}

// NewParser creates a parser
func NewParser(opts Options, logger *zap.Logger) *Parser {
	return &Parser{opts: opts, logger: logging.OrNop(logger).Named("astsource")}
}

// ParseFile reads path and parses it with the grammar matching its extension
func (p *Parser) ParseFile(ctx context.Context, path string) (*Result, error) {
	lang, err := LanguageForPath(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return p.Parse(ctx, lang, src)
}

// Parse builds the graph for src
func (p *Parser) Parse(ctx context.Context, lang Language, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grammar, err := lang.grammar()
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(grammar); err != nil {
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse %s source: no tree", lang)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		p.logger.Debug("source has syntax errors", zap.String("language", string(lang)))
	}

	decls, err := p.declarations(grammar, lang, root, src)
	if err != nil {
		return nil, err
	}

	w := &walker{
		opts:     p.opts,
		src:      src,
		lang:     lang,
		graph:    domain.NewGraph(),
		ids:      make(map[uintptr]int),
		declByID: make(map[uintptr]string),
	}
	for _, d := range decls {
		w.declByID[d.def] = d.name
	}
	if err := w.walk(ctx, root); err != nil {
		return nil, err
	}

	res := &Result{
		Graph:        w.graph,
		Language:     lang,
		Truncated:    w.truncated,
		Declarations: len(decls),
	}
	if p.opts.Dependencies {
		res.Dependencies = w.link(decls)
	}

	if res.Truncated {
		p.logger.Warn("graph truncated", zap.Int("max_nodes", p.opts.MaxNodes))
	}
	p.logger.Debug("parsed source",
		zap.String("language", string(lang)),
		zap.Int("nodes", len(res.Graph.Nodes)),
		zap.Int("edges", len(res.Graph.Edges)),
		zap.Int("dependencies", res.Dependencies),
	)
	return res, nil
}

type declaration struct {
	name    string
	def     uintptr
	nameRef uintptr
}

// declarations runs the language's declaration query over the tree
func (p *Parser) declarations(grammar *sitter.Language, lang Language, root *sitter.Node, src []byte) ([]declaration, error) {
	query, qerr := sitter.NewQuery(grammar, declarationQueries[lang])
	if qerr != nil {
		return nil, fmt.Errorf("declaration query for %s: %s", lang, qerr.Message)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	names := query.CaptureNames()
	var out []declaration
	matches := cursor.Matches(query, root, src)
	for m := matches.Next(); m != nil; m = matches.Next() {
		var d declaration
		for _, c := range m.Captures {
			switch names[c.Index] {
			case "def":
				d.def = c.Node.Id()
			case "name":
				d.name = c.Node.Utf8Text(src)
				d.nameRef = c.Node.Id()
			}
		}
		if d.name != "" && d.def != 0 {
			out = append(out, d)
		}
	}
	return out, nil
}

type walker struct {
	opts      Options
	src       []byte
	lang      Language
	graph     *domain.Graph
	truncated bool

	// tree-sitter node id -> index into graph.Nodes
	ids      map[uintptr]int
	declByID map[uintptr]string
	refs     []reference
}

type reference struct {
	node   uintptr
	nodeID string
	text   string
}

type frame struct {
	node   *sitter.Node
	parent int
	scope  int
}

func (w *walker) walk(ctx context.Context, root *sitter.Node) error {
	stack := []frame{{node: root, parent: -1}}
	visited := 0
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if w.opts.MaxNodes > 0 && len(w.graph.Nodes) >= w.opts.MaxNodes {
			w.truncated = true
			break
		}

		kind := f.node.Kind()
		if kind == "comment" {
			continue
		}

		idx := w.add(f, kind)
		scope := f.scope
		if scopeKinds[kind] {
			scope++
		}

		// push in reverse so children are visited in source order
		for i := int(f.node.NamedChildCount()) - 1; i >= 0; i-- {
			if child := f.node.NamedChild(uint(i)); child != nil {
				stack = append(stack, frame{node: child, parent: idx, scope: scope})
			}
		}
	}
	return nil
}

func (w *walker) add(f frame, kind string) int {
	idx := len(w.graph.Nodes)
	id := "n" + strconv.Itoa(idx)

	nodeType := domain.RootType
	if f.parent >= 0 {
		nodeType = strcase.ToCamel(kind)
	}

	n := domain.NewGraphNode(id, nodeType, f.scope)
	start := f.node.StartPosition()
	n.SetProperty("kind", kind)
	n.SetProperty("line", int(start.Row)+1)
	n.SetProperty("column", int(start.Column)+1)
	n.SetProperty("language", string(w.lang))
	n.Label = w.label(f.node, kind)

	if f.parent >= 0 {
		parent := &w.graph.Nodes[f.parent]
		n.Parent = parent.ID
		parent.AddChild(id)
		w.graph.AddEdge(domain.NewGraphEdge(parent.ID, id, domain.RelationshipParentChild))
	}
	w.graph.AddNode(*n)
	w.ids[f.node.Id()] = idx

	if referenceKinds[kind] {
		w.refs = append(w.refs, reference{node: f.node.Id(), nodeID: id, text: f.node.Utf8Text(w.src)})
	}
	return idx
}

func (w *walker) label(n *sitter.Node, kind string) string {
	var text string
	if name, ok := w.declByID[n.Id()]; ok {
		text = name
	} else if referenceKinds[kind] || n.NamedChildCount() == 0 {
		text = n.Utf8Text(w.src)
	}
	if w.opts.MaxLabel > 0 && len(text) > w.opts.MaxLabel {
		text = text[:w.opts.MaxLabel] + "…"
	}
	return text
}

// link adds dependency edges from references to the declarations they name
func (w *walker) link(decls []declaration) int {
	target := make(map[string]string, len(decls))
	nameRefs := make(map[uintptr]bool, len(decls))
	for _, d := range decls {
		nameRefs[d.nameRef] = true
		idx, ok := w.ids[d.def]
		if !ok {
			continue
		}
		if _, dup := target[d.name]; !dup {
			target[d.name] = w.graph.Nodes[idx].ID
		}
	}

	type pair struct{ from, to string }
	seen := make(map[pair]bool)
	added := 0
	for _, r := range w.refs {
		if nameRefs[r.node] {
			continue
		}
		to, ok := target[r.text]
		if !ok || to == r.nodeID {
			continue
		}
		key := pair{r.nodeID, to}
		if seen[key] {
			continue
		}
		seen[key] = true
		w.graph.AddEdge(domain.NewGraphEdge(r.nodeID, to, domain.RelationshipDependency))
		added++
	}
	return added
}
