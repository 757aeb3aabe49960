package astsource

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrUnsupportedLanguage is returned for a language without a grammar
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language names a supported grammar
type Language string

const (
	Go         Language = "go"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Python     Language = "python"
)

// Languages lists the supported grammars
func Languages() []Language {
	return []Language{Go, JavaScript, TypeScript, TSX, Python}
}

// ParseLanguage accepts a language name or a common alias
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(s) {
	case "go", "golang":
		return Go, nil
	case "javascript", "js", "jsx":
		return JavaScript, nil
	case "typescript", "ts":
		return TypeScript, nil
	case "tsx":
		return TSX, nil
	case "python", "py":
		return Python, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// LanguageForPath picks a grammar from a file extension
func LanguageForPath(path string) (Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return Go, nil
	case ".js", ".mjs", ".cjs", ".jsx":
		return JavaScript, nil
	case ".ts", ".mts", ".cts":
		return TypeScript, nil
	case ".tsx":
		return TSX, nil
	case ".py":
		return Python, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
}

func (l Language) grammar() (*sitter.Language, error) {
	switch l {
	case Go:
		return sitter.NewLanguage(tree_sitter_go.Language()), nil
	case JavaScript:
		return sitter.NewLanguage(tree_sitter_javascript.Language()), nil
	case TypeScript:
		return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()), nil
	case TSX:
		return sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()), nil
	case Python:
		return sitter.NewLanguage(tree_sitter_python.Language()), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, string(l))
}

// declarationQueries capture named declarations: @def is the declaring node,
// @name its identifier
var declarationQueries = map[Language]string{
	Go: `
		(function_declaration name: (identifier) @name) @def
		(method_declaration name: (field_identifier) @name) @def
		(type_declaration (type_spec name: (type_identifier) @name)) @def
		(var_spec name: (identifier) @name) @def
		(const_spec name: (identifier) @name) @def
	`,
	Python: `
		(function_definition name: (identifier) @name) @def
		(class_definition name: (identifier) @name) @def
	`,
	JavaScript: `
		(function_declaration name: (identifier) @name) @def
		(class_declaration name: (identifier) @name) @def
		(method_definition name: (property_identifier) @name) @def
		(variable_declarator name: (identifier) @name) @def
	`,
	TypeScript: tsQuery,
	TSX:        tsQuery,
}

const tsQuery = `
		(function_declaration name: (identifier) @name) @def
		(class_declaration name: (type_identifier) @name) @def
		(method_definition name: (property_identifier) @name) @def
		(interface_declaration name: (type_identifier) @name) @def
		(type_alias_declaration name: (type_identifier) @name) @def
		(variable_declarator name: (identifier) @name) @def
	`

// scopeKinds open a new lexical scope; scope level counts them
var scopeKinds = map[string]bool{
	"function_declaration":  true,
	"method_declaration":    true,
	"func_literal":          true,
	"function_definition":   true,
	"class_definition":      true,
	"class_declaration":     true,
	"class_body":            true,
	"method_definition":     true,
	"arrow_function":        true,
	"function_expression":   true,
	"function":              true,
	"lambda":                true,
	"block":                 true,
	"statement_block":       true,
	"interface_declaration": true,
}

// referenceKinds may refer to a declaration by name
var referenceKinds = map[string]bool{
	"identifier":          true,
	"type_identifier":     true,
	"field_identifier":    true,
	"property_identifier": true,
}
