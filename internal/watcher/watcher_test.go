package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

// recorder collects handler calls.
type recorder struct {
	mu     sync.Mutex
	events []Event
	calls  int
	ch     chan struct{}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 10)}
}

func (r *recorder) handle(events []Event) {
	r.mu.Lock()
	r.events = append(r.events, events...)
	r.calls++
	r.mu.Unlock()
	select {
	case r.ch <- struct{}{}:
	default:
	}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func (r *recorder) snapshot() ([]Event, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...), r.calls
}

func TestNewWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.toml")
	w, err := New(path, func([]Event) {})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	if w.Polling() {
		t.Error("expected fsnotify mode")
	}
	if w.eventFilter != Content {
		t.Errorf("eventFilter = %v, want %v", w.eventFilter, Content)
	}
	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "default.toml")
	if _, err := New(path, func([]Event) {}); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestWatcherWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.toml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	w, err := New(path, rec.handle, WithDebounceDuration(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	// unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec.wait(t)

	events, _ := rec.snapshot()
	for _, e := range events {
		if e.Path != path {
			t.Errorf("event for %q, want only %q", e.Path, path)
		}
	}
}

func TestWatcherRenameOver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.toml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	w, err := New(path, rec.handle, WithDebounceDuration(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	tmp := filepath.Join(dir, ".default.toml.swp")
	if err := os.WriteFile(tmp, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	rec.wait(t)

	events, _ := rec.snapshot()
	found := false
	for _, e := range events {
		if e.Type&Create != 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Create for the renamed file, got %+v", events)
	}
}

func TestWatcherDebounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.toml")
	rec := newRecorder()
	w, err := New(path, rec.handle, WithDebounceDuration(150*time.Millisecond))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	rec.wait(t)
	time.Sleep(300 * time.Millisecond)

	if _, calls := rec.snapshot(); calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestWatcherClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.toml")
	rec := newRecorder()
	w, err := New(path, rec.handle, WithDebounceDuration(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if _, calls := rec.snapshot(); calls != 0 {
		t.Errorf("handler called %d times after Close", calls)
	}
}

func TestWatcherPolling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.toml")
	rec := newRecorder()
	w, err := New(path, rec.handle,
		WithPolling(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounceDuration(30*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	if !w.Polling() {
		t.Fatal("expected polling mode")
	}

	steps := []struct {
		name string
		do   func() error
		want EventType
	}{
		{"create", func() error { return os.WriteFile(path, []byte("a"), 0o644) }, Create},
		{"write", func() error { return os.WriteFile(path, []byte("abc"), 0o644) }, Write},
		{"remove", func() error { return os.Remove(path) }, Remove},
	}
	for _, step := range steps {
		before, _ := rec.snapshot()
		if err := step.do(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		rec.wait(t)
		after, _ := rec.snapshot()
		found := false
		for _, e := range after[len(before):] {
			if e.Type&step.want != 0 {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: events %+v, want %v", step.name, after[len(before):], step.want)
		}
	}
}

func TestWatcherEventFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.toml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := newRecorder()
	w, err := New(path, rec.handle,
		WithPolling(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounceDuration(30*time.Millisecond),
		WithEventFilter(Remove),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if _, calls := rec.snapshot(); calls != 0 {
		t.Fatalf("write should be filtered, got %d calls", calls)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	rec.wait(t)
}

func TestWatcherIgnoresChmod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.toml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := newRecorder()
	w, err := New(path, rec.handle,
		WithPolling(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounceDuration(30*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if _, calls := rec.snapshot(); calls != 0 {
		t.Fatalf("chmod should not be reported, got %d calls", calls)
	}

	if err := os.WriteFile(path, []byte("abc"), 0o600); err != nil {
		t.Fatal(err)
	}
	rec.wait(t)
}

func TestWithDebounceDuration(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		in, want time.Duration
	}{
		{0, defaultDebounce},
		{-time.Second, defaultDebounce},
		{40 * time.Millisecond, 40 * time.Millisecond},
	}
	for _, tt := range tests {
		w, err := New(filepath.Join(dir, "default.toml"), nil, WithPolling(true), WithDebounceDuration(tt.in))
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		if got := w.debouncer.window; got != tt.want {
			t.Errorf("WithDebounceDuration(%v): window = %v, want %v", tt.in, got, tt.want)
		}
		w.Close()
	}
}

func TestEventTypeFromFsnotify(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want EventType
	}{
		{fsnotify.Create, Create},
		{fsnotify.Write, Write},
		{fsnotify.Remove, Remove},
		{fsnotify.Rename, Rename},
		{fsnotify.Chmod, Chmod},
		{fsnotify.Create | fsnotify.Write, Create | Write},
	}
	for _, tt := range tests {
		if got := eventTypeFromFsnotify(tt.op); got != tt.want {
			t.Errorf("eventTypeFromFsnotify(%v) = %v, want %v", tt.op, got, tt.want)
		}
	}
}
