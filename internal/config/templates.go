package config

import (
	"errors"
	"sort"

	"ast3d/internal/scene"
)

// ErrUnknownTemplate is returned when a template name is not registered
var ErrUnknownTemplate = errors.New("unknown style template")

// DefaultTemplate is the template used when none is configured
const DefaultTemplate = "default"

// FallbackStyle is used for node types no template or override knows about
var FallbackStyle = NodeStyle{Shape: scene.ShapeSphere, Color: scene.NeutralGray}

// Template is a named node-type palette
type Template struct {
	Name      string               `json:"name"`
	NodeTypes map[string]NodeStyle `json:"node_types"`
}

var templates = map[string]Template{
	"default": {
		Name: "default",
		NodeTypes: map[string]NodeStyle{
			"Program":              {scene.ShapeIcosahedron, 0xF44336},
			"FunctionDeclaration":  {scene.ShapeOctahedron, 0x2196F3},
			"FunctionDefinition":   {scene.ShapeOctahedron, 0x2196F3},
			"MethodDeclaration":    {scene.ShapeOctahedron, 0x03A9F4},
			"MethodDefinition":     {scene.ShapeOctahedron, 0x03A9F4},
			"ArrowFunction":        {scene.ShapeOctahedron, 0x00BCD4},
			"ClassDeclaration":     {scene.ShapeBox, 0x9C27B0},
			"ClassDefinition":      {scene.ShapeBox, 0x9C27B0},
			"TypeDeclaration":      {scene.ShapeBox, 0x673AB7},
			"InterfaceDeclaration": {scene.ShapeBox, 0x7E57C2},
			"VariableDeclaration":  {scene.ShapeTetrahedron, 0x4CAF50},
			"LexicalDeclaration":   {scene.ShapeTetrahedron, 0x4CAF50},
			"ShortVarDeclaration":  {scene.ShapeTetrahedron, 0x4CAF50},
			"VariableDeclarator":   {scene.ShapeTetrahedron, 0x8BC34A},
			"Assignment":           {scene.ShapeTetrahedron, 0x8BC34A},
			"ImportDeclaration":    {scene.ShapeCube, 0x795548},
			"ImportStatement":      {scene.ShapeCube, 0x795548},
			"Block":                {scene.ShapeSphere, 0x607D8B},
			"StatementBlock":       {scene.ShapeSphere, 0x607D8B},
			"IfStatement":          {scene.ShapeTetrahedron, 0xFF9800},
			"ForStatement":         {scene.ShapeTetrahedron, 0xFF5722},
			"ReturnStatement":      {scene.ShapeTetrahedron, 0xFFC107},
			"CallExpression":       {scene.ShapeSphere, 0xFFEB3B},
			"Call":                 {scene.ShapeSphere, 0xFFEB3B},
			"Identifier":           {scene.ShapeSphere, 0x9E9E9E},
		},
	},
	"monochrome": {
		Name: "monochrome",
		NodeTypes: map[string]NodeStyle{
			"Program":             {scene.ShapeIcosahedron, 0xFFFFFF},
			"FunctionDeclaration": {scene.ShapeOctahedron, 0xDDDDDD},
			"FunctionDefinition":  {scene.ShapeOctahedron, 0xDDDDDD},
			"MethodDeclaration":   {scene.ShapeOctahedron, 0xCCCCCC},
			"MethodDefinition":    {scene.ShapeOctahedron, 0xCCCCCC},
			"ClassDeclaration":    {scene.ShapeBox, 0xBBBBBB},
			"ClassDefinition":     {scene.ShapeBox, 0xBBBBBB},
			"Block":               {scene.ShapeSphere, 0x777777},
			"StatementBlock":      {scene.ShapeSphere, 0x777777},
			"CallExpression":      {scene.ShapeSphere, 0x999999},
			"Identifier":          {scene.ShapeSphere, 0x555555},
		},
	},
	"pastel": {
		Name: "pastel",
		NodeTypes: map[string]NodeStyle{
			"Program":             {scene.ShapeIcosahedron, 0xFFB3BA},
			"FunctionDeclaration": {scene.ShapeSphere, 0xBAE1FF},
			"FunctionDefinition":  {scene.ShapeSphere, 0xBAE1FF},
			"MethodDeclaration":   {scene.ShapeSphere, 0xBAFFC9},
			"MethodDefinition":    {scene.ShapeSphere, 0xBAFFC9},
			"ClassDeclaration":    {scene.ShapeBox, 0xFFFFBA},
			"ClassDefinition":     {scene.ShapeBox, 0xFFFFBA},
			"Block":               {scene.ShapeSphere, 0xFFDFBA},
			"StatementBlock":      {scene.ShapeSphere, 0xFFDFBA},
			"CallExpression":      {scene.ShapeOctahedron, 0xE0BBE4},
			"Identifier":          {scene.ShapeTetrahedron, 0xD4F0F0},
		},
	},
}

// LookupTemplate returns a copy of the named template
func LookupTemplate(name string) (Template, error) {
	t, ok := templates[name]
	if !ok {
		return Template{}, ErrUnknownTemplate
	}
	out := Template{Name: t.Name, NodeTypes: make(map[string]NodeStyle, len(t.NodeTypes))}
	for k, v := range t.NodeTypes {
		out.NodeTypes[k] = v
	}
	return out, nil
}

// TemplateNames returns the registered template names, sorted
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
