package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/phronisis/core"
)

const defaultOrder = 9999

// Loader reads perspective definitions from *.json files in a directory.
// Malformed files are skipped with a warning instead of failing the load.
type Loader struct {
	dir    string
	logger core.Logger
}

func NewLoader(dir string, logger core.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

func (l *Loader) Dir() string { return l.dir }

// LoadAll loads every perspective, sorted by (order, title).
func (l *Loader) LoadAll() ([]Perspective, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating content dir")
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, errors.Wrap(err, "reading content dir")
	}

	perspectives := make([]Perspective, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		p, err := l.loadFile(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			l.logger.Warn(fmt.Sprintf("skipping perspective %s: %v", entry.Name(), err))
			continue
		}
		perspectives = append(perspectives, p)
	}

	sort.Slice(perspectives, func(i, j int) bool {
		if perspectives[i].Order != perspectives[j].Order {
			return perspectives[i].Order < perspectives[j].Order
		}
		return perspectives[i].Title < perspectives[j].Title
	})
	return perspectives, nil
}

func (l *Loader) loadFile(path string) (Perspective, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Perspective{}, err
	}

	var p Perspective
	if err = json.Unmarshal(data, &p); err != nil {
		return Perspective{}, err
	}

	// minimal schema guardrails
	stem := strings.TrimSuffix(filepath.Base(path), ".json")
	if p.Slug == "" {
		p.Slug = stem
	}
	if p.Title == "" {
		p.Title = strings.Title(strings.ReplaceAll(stem, "-", " "))
	}
	if p.Order <= 0 {
		p.Order = defaultOrder
	}
	if p.Lessons == nil {
		p.Lessons = []Lesson{}
	}
	return p, nil
}

// Save writes a perspective as `<slug>.json` into the content directory.
func (l *Loader) Save(p Perspective) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return errors.Wrap(err, "creating content dir")
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling perspective")
	}
	path := filepath.Join(l.dir, p.Slug+".json")
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing perspective file")
	}
	return nil
}
