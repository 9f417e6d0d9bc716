package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"hackspace/internal/filetree"
	"hackspace/internal/model"
	"hackspace/internal/seed"
	"hackspace/internal/store"
	"hackspace/internal/tabs"
	"hackspace/internal/workspace"

	"github.com/sirupsen/logrus"
)

// source is where a workspace's tree (and, for seeds, its initial tabs) comes from.
type source struct {
	name    string
	key     string
	root    string // absolute; "" for seed workspaces
	tree    filetree.Tree
	session tabs.Session
}

func loadSource(app *App) (*source, error) {
	if strings.TrimSpace(app.Root) != "" {
		abs, err := filepath.Abs(app.Root)
		if err != nil {
			return nil, err
		}
		tree, err := filetree.LoadDir(abs, app.loadOptions())
		if err != nil {
			return nil, err
		}
		return &source{name: filepath.Base(abs), key: "root:" + abs, root: abs, tree: tree}, nil
	}

	var m *seed.Manifest
	var err error
	if strings.TrimSpace(app.Seed) != "" {
		m, err = seed.Load(app.Seed)
	} else {
		m, err = seed.Default()
	}
	if err != nil {
		return nil, err
	}
	return &source{name: m.Name, key: "seed:" + m.Name, tree: m.Tree(), session: m.Session()}, nil
}

func (app *App) loadOptions() filetree.LoadOptions {
	opts := filetree.LoadOptions{}
	if app.cfg != nil {
		if len(app.cfg.Tree.Ignore) > 0 {
			opts.Ignore = app.cfg.Tree.Ignore
		}
		opts.ExpandTopLevel = app.cfg.Tree.ExpandTopLevel
	}
	return opts
}

func storeFor(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir(app.Root)
		if err != nil {
			return store.Store{}, err
		}
		dir = d
	}
	return store.Store{Dir: dir}, nil
}

// wsHandle is an opened workspace: the controller restored from the store, plus
// what's needed to write it back.
type wsHandle struct {
	src   *source
	store store.Store
	files *store.RootFS
	ctrl  *workspace.Controller
	log   logrus.FieldLogger
}

func openWorkspace(ctx context.Context, app *App) (*wsHandle, error) {
	return openWorkspaceWith(ctx, app, true)
}

// openWorkspaceWith restores the workspace; journal attaches the synchronous store journal
// (the TUI journals off its update loop instead).
func openWorkspaceWith(ctx context.Context, app *App, journal bool) (*wsHandle, error) {
	src, err := loadSource(app)
	if err != nil {
		return nil, err
	}
	s, err := storeFor(app)
	if err != nil {
		return nil, err
	}
	log := app.logger().WithField("workspace", src.key)

	tree, session := src.tree, src.session
	var buffers, stored map[string]string
	saved, ok, err := s.LoadSession(ctx, src.key)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if ok {
		tree = tree.WithExpanded(saved.Expanded)
		session = tabs.Restore(saved.Tabs, saved.Active)
		buffers = saved.Buffers
		stored = saved.Stored
		log.WithField("tabs", session.Len()).Debug("session restored")
	}

	opts := []workspace.Option{
		workspace.WithLogger(log),
		workspace.WithBuffers(buffers),
		workspace.WithStored(stored),
	}
	if journal {
		opts = append(opts, workspace.WithListener(store.Journal{Store: s, Workspace: src.key, Log: log}))
	}
	h := &wsHandle{src: src, store: s, log: log}
	if src.root != "" {
		h.files = &store.RootFS{Root: src.root}
		opts = append(opts, workspace.WithLoader(h.files), workspace.WithSaver(h.files))
	}
	h.ctrl = workspace.New(tree, session, opts...)
	return h, nil
}

// apply dispatches ev and persists the resulting session. A dispatch error (failed save)
// is returned after the session is persisted.
func (h *wsHandle) apply(ctx context.Context, ev workspace.Event) (model.Snapshot, error) {
	snap, dispatchErr := h.ctrl.Dispatch(ev)
	if err := h.persist(ctx); err != nil {
		return snap, err
	}
	return snap, dispatchErr
}

func (h *wsHandle) persist(ctx context.Context) error {
	if err := h.store.SaveSession(ctx, store.StateFrom(h.src.key, h.ctrl)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (app *App) logger() *logrus.Logger {
	if app.log == nil {
		app.log = newLogger(io.Discard, logrus.WarnLevel)
	}
	return app.log
}
