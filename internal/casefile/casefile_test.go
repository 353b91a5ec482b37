package casefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    []string
	}{
		{"yaml list", "case.yaml", "criteria:\n  - splenomegaly\n  - b12\n", []string{"splenomegaly", "b12"}},
		{"yml map", "case.yml", "selected:\n  tryptase: true\n  age: false\n  ige: true\n", []string{"ige", "tryptase"}},
		{"json", "case.json", `{"criteria":["age"],"selected":{"sex":true}}`, []string{"age", "sex"}},
		{"toml", "case.toml", "criteria = [\"papulosis\", \"no-gi\"]\n", []string{"papulosis", "no-gi"}},
		{"text", "case.txt", "# patient 12\nage\n\nsex, b12 # labs\n", []string{"age", "sex", "b12"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Criteria)
			assert.True(t, strings.HasPrefix(c.Hash, "sha256:"))
			assert.Equal(t, tt.content, c.Raw)
		})
	}
}

func TestLoad_HashStable(t *testing.T) {
	a, err := Load(writeFile(t, "a.txt", "age\n"))
	require.NoError(t, err)
	b, err := Load(writeFile(t, "b.txt", "age\n"))
	require.NoError(t, err)
	c, err := Load(writeFile(t, "c.txt", "sex\n"))
	require.NoError(t, err)
	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeFile(t, "bad.json", `{"criteria": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestParse_Empty(t *testing.T) {
	got, err := Parse(".txt", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParse_ListAndMapOverlap(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		content string
		want    []string
	}{
		{"yaml", ".yaml", "criteria:\n  - b12\nselected:\n  b12: true\n  ige: true\n", []string{"b12", "ige"}},
		{"json alias", ".json", `{"criteria":["no-gi"],"selected":{"NO_GI":true}}`, []string{"no-gi"}},
		{"toml", ".toml", "criteria = [\"age\"]\n[selected]\nage = true\nsex = false\n", []string{"age"}},
		{"list repeat kept", ".yaml", "criteria:\n  - age\n  - age\n", []string{"age", "age"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.ext, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
