package commands

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the store's backing file for edits made outside the
// application and invokes onChange after each one. onChange is called from
// a background goroutine; callers must marshal any scene work onto the UI
// thread themselves. The returned stop function closes the watcher.
func Watch(path string, onChange func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors often replace the file rather than
	// write it in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	target := filepath.Base(path)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				if filepath.Base(ev.Name) != target {
					continue
				}
				// Let the writer finish before reloading.
				time.Sleep(150 * time.Millisecond)
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if err != nil {
					slog.Warn("commands watcher error", "err", err)
				}
			}
		}
	}()

	stop := func() {
		_ = watcher.Close()
		<-done
	}
	return stop, nil
}
