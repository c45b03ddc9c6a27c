// Package watcher reports changes to a single file, debounced, using fsnotify
// with a polling fallback.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is used when falling back to polling.
const DefaultPollInterval = time.Second

// EventType represents the type of file system event.
type EventType uint32

const (
	Create EventType = 1 << iota
	Write
	Remove
	Rename
	Chmod

	// Content is every event that can change what a reader of the file sees.
	Content = Create | Write | Remove | Rename
)

// Event is one change to the watched file.
type Event struct {
	Path string
	Type EventType
}

func eventTypeFromFsnotify(op fsnotify.Op) EventType {
	var t EventType
	if op.Has(fsnotify.Create) {
		t |= Create
	}
	if op.Has(fsnotify.Write) {
		t |= Write
	}
	if op.Has(fsnotify.Remove) {
		t |= Remove
	}
	if op.Has(fsnotify.Rename) {
		t |= Rename
	}
	if op.Has(fsnotify.Chmod) {
		t |= Chmod
	}
	return t
}

// Handler receives the events coalesced by one debounce window.
type Handler func(events []Event)

// ErrorHandler is called when a watch error occurs.
type ErrorHandler func(err error)

// fileMeta stores file metadata for poll-based change detection.
type fileMeta struct {
	exists  bool
	modTime time.Time
	size    int64
	mode    os.FileMode
}

func stat(path string) (fileMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileMeta{}, nil
		}
		return fileMeta{}, err
	}
	return fileMeta{exists: true, modTime: info.ModTime(), size: info.Size(), mode: info.Mode()}, nil
}

// Watcher watches one file. Its parent directory is what is actually
// watched, since editors usually save by writing a new file and renaming it
// over the old one.
type Watcher struct {
	path string
	dir  string

	fsWatcher    *fsnotify.Watcher
	debouncer    *debouncer
	handler      Handler
	errorHandler ErrorHandler
	eventFilter  EventType

	pollMode     bool
	forcePoll    bool
	pollInterval time.Duration
	last         fileMeta
	closeCh      chan struct{}

	mu      sync.Mutex
	pending []Event
	closed  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce window. Non-positive values keep
// the 250ms default.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debouncer = newDebouncer(d)
		}
	}
}

// WithEventFilter sets which event types are reported. Default is Content.
func WithEventFilter(filter EventType) Option {
	return func(w *Watcher) {
		w.eventFilter = filter
	}
}

// WithErrorHandler sets the handler for watch errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(w *Watcher) {
		w.errorHandler = h
	}
}

// WithPollInterval sets the polling interval (used when polling mode is active).
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithPolling forces polling mode.
func WithPolling(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// New starts watching path. The file does not have to exist yet, but its
// directory does.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w := &Watcher{
		path:         abs,
		dir:          filepath.Dir(abs),
		debouncer:    newDebouncer(defaultDebounce),
		handler:      handler,
		eventFilter:  Content,
		pollInterval: DefaultPollInterval,
		closeCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if info, err := os.Stat(w.dir); err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf("watching %s: %s is not a directory", path, w.dir)
	}

	if !w.forcePoll {
		fsWatcher, err := fsnotify.NewWatcher()
		if err == nil {
			err = fsWatcher.Add(w.dir)
			if err != nil {
				fsWatcher.Close()
			}
		}
		if err == nil {
			w.fsWatcher = fsWatcher
		} else {
			w.reportError(fmt.Errorf("fsnotify unavailable, using polling fallback: %w", err))
			w.pollMode = true
		}
	} else {
		w.pollMode = true
	}

	if w.pollMode {
		if w.last, err = stat(w.path); err != nil {
			return nil, err
		}
		go w.runPoll()
	} else {
		go w.run()
	}
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string { return w.path }

// Polling reports whether the watcher fell back to polling.
func (w *Watcher) Polling() bool { return w.pollMode }

// Close stops the watcher. No handler call starts after Close returns.
// Calling Close more than once is a no-op.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.debouncer.stop()
	close(w.closeCh)
	if w.fsWatcher != nil {
		return w.fsWatcher.Close()
	}
	return nil
}

func (w *Watcher) reportError(err error) {
	if w.errorHandler != nil {
		w.errorHandler(err)
	}
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) handleEvent(fsEvent fsnotify.Event) {
	if filepath.Clean(fsEvent.Name) != w.path {
		return
	}
	w.queue(Event{Path: w.path, Type: eventTypeFromFsnotify(fsEvent.Op)})
}

func (w *Watcher) runPoll() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.pollOnce()
		case <-w.closeCh:
			return
		}
	}
}

// pollOnce compares the file against the previous scan.
func (w *Watcher) pollOnce() {
	cur, err := stat(w.path)
	if err != nil {
		w.reportError(err)
		return
	}
	prev := w.last
	w.last = cur

	var t EventType
	switch {
	case cur.exists && !prev.exists:
		t = Create
	case !cur.exists && prev.exists:
		t = Remove
	case cur.exists:
		if cur.modTime != prev.modTime || cur.size != prev.size {
			t |= Write
		}
		if cur.mode != prev.mode {
			t |= Chmod
		}
	}
	if t != 0 {
		w.queue(Event{Path: w.path, Type: t})
	}
}

// queue records an event and (re)arms the debouncer.
func (w *Watcher) queue(e Event) {
	if e.Type&w.eventFilter == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending = append(w.pending, e)

	w.debouncer.schedule(func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		toDeliver := w.pending
		w.pending = nil
		w.mu.Unlock()

		if len(toDeliver) > 0 && w.handler != nil {
			w.handler(toDeliver)
		}
	})
}
