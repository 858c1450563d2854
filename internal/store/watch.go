package store

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reports writes to the database made by other processes. It
// watches the database's directory rather than the file itself so WAL
// journal writes and file replacement are both caught. Events are
// debounced and delivered as signals on the returned channel; the stop
// function ends watching and closes the channel.
func (s *Store) Watch() (<-chan struct{}, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, nil, err
	}

	base := filepath.Base(s.path)
	events := make(chan struct{}, 1)
	fired := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer watcher.Close()
		defer close(events)

		// Debounce timer. Its callback runs on a timer goroutine that
		// can outlive a Stop, so it only pokes the internal fired
		// channel; events is sent on and closed by this goroutine alone.
		var debounceTimer *time.Timer
		debounceDelay := 100 * time.Millisecond

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// The db file plus its -wal/-shm/-journal side files
				if !strings.HasPrefix(filepath.Base(event.Name), base) {
					continue
				}

				// Debounce rapid events
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					select {
					case fired <- struct{}{}:
					default:
					}
				})

			case <-fired:
				select {
				case events <- struct{}{}:
				default:
					// Channel full, a refresh is already pending
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Keep watching

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	var stopOnce sync.Once
	stop := func() { stopOnce.Do(func() { close(done) }) }
	return events, stop, nil
}
