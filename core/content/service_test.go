package content_test

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/phronisis/core"
	"github.com/trezcool/phronisis/core/content"
	testutil "github.com/trezcool/phronisis/tests"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate
}

func newService(t *testing.T, dir string) *content.Service {
	t.Helper()
	logger := testutil.NewLogger()
	svc, err := content.NewService(content.NewLoader(dir, logger), logger, nil)
	require.NoError(t, err)
	return svc
}

func TestService_lookups(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "understanding-arguments.json", `{
		"slug": "understanding-arguments",
		"title": "Understanding Arguments",
		"summary": "Arguments.",
		"order": 1,
		"lessons": [{"id": "l1", "title": "Lesson 1"}]
	}`)
	svc := newService(t, dir)

	assert.Len(t, svc.All(), 1)

	p, err := svc.GetBySlug("understanding-arguments")
	require.NoError(t, err)
	assert.Equal(t, "Understanding Arguments", p.Title)

	_, err = svc.GetBySlug("nope")
	assert.Equal(t, content.ErrNotFound, errors.Cause(err))

	_, lesson, err := svc.GetLesson("understanding-arguments", "l1")
	require.NoError(t, err)
	assert.Equal(t, "Lesson 1", lesson.Title)

	_, _, err = svc.GetLesson("understanding-arguments", "nope")
	assert.Equal(t, content.ErrLessonNotFound, errors.Cause(err))
}

func TestService_Ingest(t *testing.T) {
	svc := newService(t, t.TempDir())
	validate := newValidator()

	t.Run("invalid slug is rejected", func(t *testing.T) {
		err := svc.Ingest(content.Perspective{
			Slug:    "Not A Slug",
			Title:   "T",
			Summary: "S",
			Order:   1,
			Lessons: []content.Lesson{{ID: "l1", Title: "L1"}},
		}, validate)
		assert.Error(t, err)
	})

	t.Run("missing lessons is rejected", func(t *testing.T) {
		err := svc.Ingest(content.Perspective{
			Slug:    "valid-slug",
			Title:   "T",
			Summary: "S",
			Order:   1,
		}, validate)
		assert.Error(t, err)
	})

	t.Run("valid upload lands in the catalog", func(t *testing.T) {
		err := svc.Ingest(content.Perspective{
			Slug:    "fresh-perspective",
			Title:   "Fresh Perspective",
			Summary: "S",
			Order:   3,
			Lessons: []content.Lesson{{ID: "l1", Title: "L1"}},
		}, validate)
		require.NoError(t, err)

		p, err := svc.GetBySlug("fresh-perspective")
		require.NoError(t, err)
		assert.Equal(t, "Fresh Perspective", p.Title)
	})
}
