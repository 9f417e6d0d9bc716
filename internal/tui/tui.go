package tui

import (
	"context"
	"io"
	"sync"

	"hackspace/internal/filetree"
	"hackspace/internal/fswatch"
	"hackspace/internal/model"
	"hackspace/internal/store"
	"hackspace/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Options configures an interactive session over an already restored controller.
type Options struct {
	Title      string
	Controller *workspace.Controller
	Store      store.Store
	// Workspace is the store key sessions and journal rows are written under.
	Workspace string

	// Root is set for disk-backed workspaces; it enables reloading and file watching.
	Root string
	Load filetree.LoadOptions

	Theme   string
	Glyphs  string
	Preview bool

	Log logrus.FieldLogger
}

// Run takes over the terminal until the user quits. The session is saved on exit.
func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference(opts.Glyphs)
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = l
	}

	// One connection for the whole session instead of one per write.
	if opts.Store.Dir != "" {
		if st, err := opts.Store.Open(ctx); err != nil {
			opts.Log.WithError(err).Warn("open store")
		} else {
			opts.Store = st
			defer st.Close()
		}
	}

	// Journal writes happen off the update loop.
	journal := newAsyncJournal(store.Journal{Store: opts.Store, Workspace: opts.Workspace, Log: opts.Log}, opts.Log)
	defer journal.Close()

	var watcher *fswatch.Watcher
	if opts.Root != "" {
		ignore := opts.Load.Ignore
		if ignore == nil {
			ignore = filetree.DefaultIgnore
		}
		w, err := fswatch.New(opts.Root, ignore, fswatch.WithLogger(opts.Log))
		if err != nil {
			opts.Log.WithError(err).Warn("file watching disabled")
		} else {
			watcher = w
			wctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() { _ = w.Run(wctx) }()
		}
	}

	m := newAppModel(opts, journal)
	if watcher != nil {
		m.changes = watcher.Changes()
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(appModel); ok {
		fm.flushEdit()
		fm.persistNow()
		fm.saveTUIState()
	}
	return err
}

// asyncJournal forwards dispatched events to a journal on its own goroutine.
// Snapshots are immutable, so handing them across goroutines is safe.
type asyncJournal struct {
	ch   chan journalEntry
	log  logrus.FieldLogger
	wg   sync.WaitGroup
	once sync.Once
}

type journalEntry struct {
	ev   workspace.Event
	snap model.Snapshot
}

func newAsyncJournal(l workspace.Listener, log logrus.FieldLogger) *asyncJournal {
	j := &asyncJournal{ch: make(chan journalEntry, 256), log: log}
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		for e := range j.ch {
			l.Observe(e.ev, e.snap)
		}
	}()
	return j
}

// Observe never blocks the caller: when the writer falls behind the entry is dropped.
func (j *asyncJournal) Observe(ev workspace.Event, snap model.Snapshot) {
	select {
	case j.ch <- journalEntry{ev: ev, snap: snap}:
	default:
		j.log.WithField("event", string(ev.Type)).Warn("journal backlog full, event dropped")
	}
}

// Close drains pending entries.
func (j *asyncJournal) Close() {
	j.once.Do(func() {
		close(j.ch)
		j.wg.Wait()
	})
}
