package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.rs", "rust"},
		{"main.go", "go"},
		{"x/y/app.PY", "python"},
		{"conf.yml", "yaml"},
		{"README", "plaintext"},
		{"notes.txt", "plaintext"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Detect(tt.path).Name, tt.path)
	}
}

func TestTableOverride(t *testing.T) {
	table := DefaultTable()
	table.Add(Language{Name: "nim", Extensions: []string{".nim"}, Strategy: StrategyIndent})

	l := table.Detect("a.nim")
	require.Equal(t, "nim", l.Name)
	require.Equal(t, StrategyIndent, l.Strategy)
	require.Equal(t, 4, l.TabWidth)

	_, ok := table.ByName("NIM")
	require.True(t, ok)
}

func TestParseStrategy(t *testing.T) {
	s, ok := ParseStrategy("indent")
	require.True(t, ok)
	require.Equal(t, StrategyIndent, s)

	s, ok = ParseStrategy("")
	require.True(t, ok)
	require.Equal(t, StrategyBrace, s)

	_, ok = ParseStrategy("tree")
	require.False(t, ok)
}
