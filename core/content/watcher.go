package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

const watchDebounceDelay = 500 * time.Millisecond

// Watch reloads the catalog whenever a *.json file in the content directory
// changes. Rapid successive events are debounced into a single reload.
// It blocks until ctx is cancelled.
func (svc *Service) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err = watcher.Add(svc.loader.Dir()); err != nil {
		return errors.Wrap(err, "watching content dir")
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	reload := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// wait for more changes before reloading
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounceDelay, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			if err := svc.Reload(); err != nil {
				svc.logger.Error(fmt.Sprintf("reloading catalog: %v", err), err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			svc.logger.Error(fmt.Sprintf("content watcher: %v", err), err)
		}
	}
}
