package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ast3d/internal/codec"
)

const goSource = `package main

func helper() int { return 1 }

func main() { helper() }
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestParseSummary(t *testing.T) {
	path := writeSource(t, "main.go", goSource)

	out, err := execute(t, "parse", path)
	require.NoError(t, err)
	assert.Contains(t, out, "(go, ")
	assert.Contains(t, out, "declarations: 2")
	assert.Contains(t, out, "dependencies: 1")
	assert.Contains(t, out, "FunctionDeclaration")
	assert.NotContains(t, out, "truncated")
}

func TestParseExport(t *testing.T) {
	path := writeSource(t, "main.go", goSource)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			out, err := execute(t, "parse", "--format", format, path)
			require.NoError(t, err)

			c, err := codec.ForFormat(format)
			require.NoError(t, err)
			g, err := c.Parse(bytes.NewBufferString(out))
			require.NoError(t, err)
			assert.NotEmpty(t, g.Nodes)
			assert.NoError(t, g.Validate())
		})
	}
}

func TestParseFlags(t *testing.T) {
	path := writeSource(t, "main.go", goSource)

	out, err := execute(t, "parse", "--max-nodes", "3", path)
	require.NoError(t, err)
	assert.Contains(t, out, "nodes:        3")
	assert.Contains(t, out, "truncated:    yes")

	out, err = execute(t, "parse", "--no-deps", path)
	require.NoError(t, err)
	assert.Contains(t, out, "dependencies: 0")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", []string{"parse"}},
		{"unknown format", []string{"parse", "-f", "toml", writeSource(t, "main.go", goSource)}},
		{"unsupported language", []string{"parse", writeSource(t, "main.rb", "puts 1")}},
		{"missing file", []string{"parse", filepath.Join(t.TempDir(), "gone.go")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestServeRejectsBadConfig(t *testing.T) {
	cfg := writeSource(t, "ast3d.yaml", "style:\n  template: neon\n")
	_, err := execute(t, "serve", "--config", cfg, "--db", filepath.Join(t.TempDir(), "a.db"))
	assert.Error(t, err)
}
