package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/phronisis/core/content"
	testutil "github.com/trezcool/phronisis/tests"
)

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
}

func TestLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()
	loader := content.NewLoader(dir, testutil.NewLogger())

	writeFile(t, dir, "understanding-arguments.json", `{
		"slug": "understanding-arguments",
		"title": "Understanding Arguments",
		"summary": "Arguments.",
		"order": 2,
		"lessons": [{"id": "l1", "title": "Lesson 1"}]
	}`)
	// missing slug, title and order fall back to defaults
	writeFile(t, dir, "digital-media-literacy.json", `{
		"summary": "Media.",
		"lessons": [{"id": "l1", "title": "Lesson 1"}]
	}`)
	// malformed files are skipped, not fatal
	writeFile(t, dir, "broken.json", `{"slug": "broken",`)
	// non-json files are ignored
	writeFile(t, dir, "notes.txt", "not a perspective")

	perspectives, err := loader.LoadAll()
	require.NoError(t, err)
	require.Len(t, perspectives, 2)

	// explicit order 2 sorts before the defaulted 9999
	assert.Equal(t, "understanding-arguments", perspectives[0].Slug)
	assert.Equal(t, 2, perspectives[0].Order)

	defaulted := perspectives[1]
	assert.Equal(t, "digital-media-literacy", defaulted.Slug)
	assert.Equal(t, "Digital Media Literacy", defaulted.Title)
	assert.Equal(t, 9999, defaulted.Order)
}

func TestLoader_LoadAll_missingDirIsCreated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "perspectives")
	loader := content.NewLoader(dir, testutil.NewLogger())

	perspectives, err := loader.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, perspectives)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestLoader_Save(t *testing.T) {
	dir := t.TempDir()
	loader := content.NewLoader(dir, testutil.NewLogger())

	p := content.Perspective{
		Slug:    "new-perspective",
		Title:   "New Perspective",
		Summary: "Fresh.",
		Order:   1,
		Lessons: []content.Lesson{{ID: "l1", Title: "Lesson 1"}},
	}
	require.NoError(t, loader.Save(p))

	loaded, err := loader.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, p, loaded[0])
}
