package content

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core"
)

var (
	// errors
	ErrNotFound       = errors.New("perspective not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

type (
	ServiceInterface interface {
		All() []Perspective
		GetBySlug(slug string) (Perspective, error)
		GetLesson(slug, lessonID string) (Perspective, Lesson, error)
		Ingest(p Perspective, validate *validator.Validate) error
		Reload() error
	}

	// MetricsRecorder counts catalog reloads; nil disables recording.
	MetricsRecorder interface {
		RecordCatalogReload()
	}

	// Service is the in-memory perspective catalog. It is safe for
	// concurrent use; Reload swaps the whole catalog at once.
	Service struct {
		loader  *Loader
		logger  core.Logger
		metrics MetricsRecorder

		mu           sync.RWMutex
		perspectives []Perspective
		bySlug       map[string]Perspective
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(loader *Loader, logger core.Logger, metrics MetricsRecorder) (*Service, error) {
	svc := &Service{loader: loader, logger: logger, metrics: metrics}
	if err := svc.Reload(); err != nil {
		return nil, err
	}
	return svc, nil
}

// Reload re-reads the content directory and swaps the catalog.
func (svc *Service) Reload() error {
	perspectives, err := svc.loader.LoadAll()
	if err != nil {
		return errors.Wrap(err, "loading perspectives")
	}

	bySlug := make(map[string]Perspective, len(perspectives))
	for _, p := range perspectives {
		bySlug[p.Slug] = p
	}

	svc.mu.Lock()
	svc.perspectives = perspectives
	svc.bySlug = bySlug
	svc.mu.Unlock()

	svc.logger.Info(fmt.Sprintf("perspective catalog loaded: %d perspectives", len(perspectives)))
	if svc.metrics != nil {
		svc.metrics.RecordCatalogReload()
	}
	return nil
}

func (svc *Service) All() []Perspective {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	all := make([]Perspective, len(svc.perspectives))
	copy(all, svc.perspectives)
	return all
}

func (svc *Service) GetBySlug(slug string) (Perspective, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	if p, ok := svc.bySlug[slug]; ok {
		return p, nil
	}
	return Perspective{}, ErrNotFound
}

func (svc *Service) GetLesson(slug, lessonID string) (Perspective, Lesson, error) {
	p, err := svc.GetBySlug(slug)
	if err != nil {
		return Perspective{}, Lesson{}, err
	}
	lesson, ok := p.GetLesson(lessonID)
	if !ok {
		return Perspective{}, Lesson{}, ErrLessonNotFound
	}
	return p, lesson, nil
}

// Ingest validates and persists an uploaded perspective definition, then
// reloads the catalog. An existing perspective with the same slug is replaced.
func (svc *Service) Ingest(p Perspective, validate *validator.Validate) error {
	if err := p.Validate(validate); err != nil {
		return err
	}
	if err := svc.loader.Save(p); err != nil {
		return err
	}
	return svc.Reload()
}
