package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/justyntemme/dragdrop/internal/debug"
)

// Watcher reloads a Manager when its file changes on disk and reports the new Config.
type Watcher struct {
	watcher  *fsnotify.Watcher
	manager  *Manager
	onChange func(Config)
	done     chan struct{}
	debounce time.Duration
}

// Watch starts watching the manager's config file. The directory is watched rather than
// the file so editors that replace the file by rename are picked up.
func Watch(m *Manager, debounce time.Duration, onChange func(Config)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(m.Path())); err != nil {
		w.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	cw := &Watcher{
		watcher:  w,
		manager:  m,
		onChange: onChange,
		done:     make(chan struct{}),
		debounce: debounce,
	}
	go cw.run()
	return cw, nil
}

func (cw *Watcher) run() {
	target := filepath.Clean(cw.manager.Path())
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-cw.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debug.Log(debug.CONFIG, "fsnotify %s on %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				timer.Reset(cw.debounce)
			}
			fire = timer.C

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.CONFIG, "fsnotify error: %v", err)

		case <-fire:
			fire = nil
			if err := cw.manager.Reload(); err != nil {
				debug.Log(debug.CONFIG, "reload failed: %v", err)
				continue
			}
			if cw.onChange != nil {
				cw.onChange(cw.manager.Get())
			}
		}
	}
}

// Close stops watching
func (cw *Watcher) Close() error {
	close(cw.done)
	return cw.watcher.Close()
}
