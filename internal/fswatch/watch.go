// Package fswatch reports (debounced) changes below a workspace root so the
// file tree can be reloaded.
package fswatch

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const DefaultDebounce = 150 * time.Millisecond

// Watcher coalesces filesystem events into change notifications.
type Watcher struct {
	root     string
	ignore   map[string]bool
	debounce time.Duration
	log      logrus.FieldLogger

	fsw     *fsnotify.Watcher
	changes chan string
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New watches root and every directory below it, skipping directories whose base
// name is in ignore.
func New(root string, ignore []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	w := &Watcher{
		root:     root,
		ignore:   map[string]bool{},
		debounce: DefaultDebounce,
		log:      discard,
		fsw:      fsw,
		changes:  make(chan string, 1),
	}
	for _, name := range ignore {
		w.ignore[name] = true
	}
	for _, o := range opts {
		o(w)
	}
	if err := w.addRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Changes delivers the path of the last event in each debounced burst. A slow reader
// misses intermediate bursts, never the latest one.
func (w *Watcher) Changes() <-chan string { return w.changes }

// Run pumps events until ctx is done. It closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						w.log.WithError(err).WithField("dir", ev.Name).Warn("watch new directory")
					}
				}
			}

			name := ev.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				w.log.WithField("file", name).Debug("change detected")
				w.notify(name)
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watcher error")
		}
	}
}

func (w *Watcher) notify(name string) {
	select {
	case w.changes <- name:
	default:
		// Replace a pending notification with the newer one.
		select {
		case <-w.changes:
		default:
		}
		select {
		case w.changes <- name:
		default:
		}
	}
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for dir := rel; dir != "." && dir != string(filepath.Separator) && dir != ""; dir = filepath.Dir(dir) {
		if w.ignore[filepath.Base(dir)] {
			return true
		}
	}
	return false
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.ignore[d.Name()] {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}
