package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryExactMatchOnly(t *testing.T) {
	lib := New(map[string]string{
		"The Hobbit": "Bilbo Baggins goes on an adventure.",
	})

	s, ok := lib.Summary("The Hobbit")
	require.True(t, ok)
	assert.Equal(t, "Bilbo Baggins goes on an adventure.", s)

	_, ok = lib.Summary("the hobbit")
	assert.False(t, ok)

	_, ok = lib.Summary("The Hobbit ")
	assert.False(t, ok)
}

func TestLoadParsesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book_summaries.json")
	data := `[
		{"title": "Book A", "summary": "Full summary A"},
		{"title": "Book B", "summary": "Full summary B"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	lib, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, lib.Len())
	assert.Equal(t, []string{"Book A", "Book B"}, lib.Titles())

	s, ok := lib.Summary("Book B")
	require.True(t, ok)
	assert.Equal(t, "Full summary B", s)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
