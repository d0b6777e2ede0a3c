package project

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of spec file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // spec file edited or created
	ChangeRemoved                    // spec file deleted
)

// SpecChange represents a detected change to a spec file.
type SpecChange struct {
	Kind ChangeKind
	File string // absolute path
}

// Watcher monitors a project directory for spec JSON changes using fsnotify.
// Editors write in bursts (temp file, truncate, rename), so events are
// debounced before they surface.
type Watcher struct {
	Dir     string
	Changes <-chan SpecChange // read-only external channel

	changes chan SpecChange // internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a new watcher for the given project directory.
func NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan SpecChange, 16)
	w := &Watcher{
		Dir:     dir,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching the project directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track last event time per file.
	const debounce = 100 * time.Millisecond
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				// Stop is already waiting on done, so deliver what fits in
				// the buffer and drop the rest; a blocking send here would
				// deadlock shutdown.
				for file := range pending {
					select {
					case w.changes <- w.change(file):
					default:
					}
				}
				return
			}

			if !w.isSpecFile(event.Name) {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					w.emitChange(file)
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func (w *Watcher) isSpecFile(name string) bool {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, ".json") {
		return false
	}
	// Generated output also carries .json files; only watch sources.
	if base == "manifest.json" {
		return false
	}
	return true
}

func (w *Watcher) emitChange(file string) {
	w.changes <- w.change(file)
}

func (w *Watcher) change(file string) SpecChange {
	// The file may be gone by the time the debounce fires.
	if _, err := os.Stat(file); err != nil {
		return SpecChange{Kind: ChangeRemoved, File: file}
	}
	return SpecChange{Kind: ChangeModified, File: file}
}
