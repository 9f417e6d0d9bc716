package workspace

import (
	"errors"
	"fmt"
	"io"

	"hackspace/internal/filetree"
	"hackspace/internal/model"
	"hackspace/internal/tabs"

	"github.com/sirupsen/logrus"
)

// Loader reads the on-disk content of a file the first time its buffer is needed.
type Loader interface {
	Load(path model.Path) (string, error)
}

// Saver persists a buffer when a file.saved event arrives.
type Saver interface {
	Save(path model.Path, content string) error
}

// Listener observes every dispatched event together with the snapshot it produced.
type Listener interface {
	Observe(ev Event, snap model.Snapshot)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev Event, snap model.Snapshot)

func (f ListenerFunc) Observe(ev Event, snap model.Snapshot) { f(ev, snap) }

type Option func(*Controller)

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithLoader(l Loader) Option { return func(c *Controller) { c.loader = l } }
func WithSaver(s Saver) Option   { return func(c *Controller) { c.saver = s } }

func WithListener(l Listener) Option {
	return func(c *Controller) {
		if l != nil {
			c.listeners = append(c.listeners, l)
		}
	}
}

// WithBuffers seeds unsaved buffers (e.g. restored from a persisted session).
func WithBuffers(b map[string]string) Option {
	return func(c *Controller) {
		for k, v := range b {
			c.buffers[k] = v
		}
	}
}

// WithStored seeds the saved content of files that have no disk location.
func WithStored(b map[string]string) Option {
	return func(c *Controller) {
		for k, v := range b {
			c.stored[k] = v
		}
	}
}

// Controller binds a file tree and a tab session to the events a presentation layer emits.
//
// It is not safe for concurrent use: events are expected one at a time, each one finishing
// before the next is dispatched.
type Controller struct {
	tree    filetree.Tree
	session tabs.Session

	// Unsaved edits per open tab. Closing a tab discards them.
	buffers map[string]string
	// Saved content of tabs that are not written through the Saver (seed workspaces,
	// tabs without a path). It outlives the tab.
	stored map[string]string

	loader    Loader
	saver     Saver
	listeners []Listener
	log       logrus.FieldLogger
}

func New(tree filetree.Tree, session tabs.Session, opts ...Option) *Controller {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	c := &Controller{
		tree:    tree,
		session: session,
		buffers: map[string]string{},
		stored:  map[string]string{},
		log:     discard,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) Tree() filetree.Tree    { return c.tree }
func (c *Controller) Session() tabs.Session { return c.session }

// Snapshot returns the current immutable view.
func (c *Controller) Snapshot() model.Snapshot {
	return model.Snapshot{
		Tree:      c.tree.Roots(),
		OpenTabs:  c.session.Tabs(),
		ActiveTab: c.session.Active(),
	}
}

// OnNodeClick toggles a folder or opens a file. Unknown paths are ignored.
func (c *Controller) OnNodeClick(path model.Path) model.Snapshot {
	c.nodeClick(path)
	return c.Snapshot()
}

func (c *Controller) nodeClick(path model.Path) {
	n, ok := c.tree.FindNode(path)
	if !ok {
		c.log.WithField("path", path.String()).Debug("node click on missing path ignored")
		return
	}
	if n.IsFolder() {
		c.tree = c.tree.ToggleFolder(path)
		return
	}
	c.session = c.session.OpenPath(n.Name, path.String(), n.Language, n.HasErrors)
}

// OnTabClick focuses a tab. Clicking a tab that isn't open does nothing.
func (c *Controller) OnTabClick(name string) model.Snapshot {
	c.tabClick(name)
	return c.Snapshot()
}

func (c *Controller) tabClick(name string) {
	next, err := c.session.SetActiveTab(name)
	if err != nil {
		if errors.Is(err, tabs.ErrInvalidTab) {
			c.log.WithField("tab", name).Debug("tab click ignored: ", err)
			return
		}
		c.log.WithError(err).Warn("tab click")
		return
	}
	c.session = next
}

// OnTabClose closes a tab, dropping any unsaved edits it held.
func (c *Controller) OnTabClose(name string) model.Snapshot {
	c.tabClose(name)
	return c.Snapshot()
}

func (c *Controller) tabClose(name string) {
	if _, ok := c.session.Find(name); !ok {
		return
	}
	delete(c.buffers, name)
	c.session = c.session.CloseTab(name)
}

func (c *Controller) writesToDisk(tab model.TabEntry) bool {
	return c.saver != nil && tab.Path != ""
}

// OnFileEdited records new content for an open tab and marks it modified.
func (c *Controller) OnFileEdited(name, content string) model.Snapshot {
	c.fileEdited(name, content)
	return c.Snapshot()
}

func (c *Controller) fileEdited(name, content string) {
	if _, ok := c.session.Find(name); !ok {
		return
	}
	c.buffers[name] = content
	c.session = c.session.MarkModified(name, true)
}

// OnFileSaved clears the modified flag, writing the buffer through the Saver first when
// the tab maps to a tree path. A failed write keeps the tab modified.
func (c *Controller) OnFileSaved(name string) (model.Snapshot, error) {
	err := c.fileSaved(name)
	return c.Snapshot(), err
}

func (c *Controller) fileSaved(name string) error {
	tab, ok := c.session.Find(name)
	if !ok {
		return nil
	}
	content, err := c.Buffer(name)
	if err != nil {
		return err
	}
	if c.writesToDisk(tab) {
		if err := c.saver.Save(model.ParsePath(tab.Path), content); err != nil {
			return fmt.Errorf("save %s: %w", tab.Path, err)
		}
		c.log.WithField("path", tab.Path).Info("saved")
	} else if _, edited := c.buffers[name]; edited {
		c.stored[name] = content
	}
	delete(c.buffers, name)
	c.session = c.session.MarkModified(name, false)
	return nil
}

// Dispatch applies one event and notifies listeners with the resulting snapshot.
func (c *Controller) Dispatch(ev Event) (model.Snapshot, error) {
	var err error
	switch ev.Type {
	case EventNodeClicked:
		c.nodeClick(ev.Path)
	case EventTabClicked:
		c.tabClick(ev.Name)
	case EventTabClosed:
		c.tabClose(ev.Name)
	case EventFileEdited:
		c.fileEdited(ev.Name, ev.Content)
	case EventFileSaved:
		err = c.fileSaved(ev.Name)
	default:
		return c.Snapshot(), fmt.Errorf("unknown event type: %q", ev.Type)
	}
	snap := c.Snapshot()
	c.log.WithFields(logrus.Fields{
		"event":   string(ev.Type),
		"subject": ev.Subject(),
		"active":  snap.ActiveTab,
		"tabs":    len(snap.OpenTabs),
	}).Debug("dispatched")
	for _, l := range c.listeners {
		l.Observe(ev, snap)
	}
	return snap, err
}

// Buffer returns a tab's current content: its unsaved edits, else its stored content, else
// whatever the Loader provides.
func (c *Controller) Buffer(name string) (string, error) {
	if b, ok := c.buffers[name]; ok {
		return b, nil
	}
	if b, ok := c.stored[name]; ok {
		return b, nil
	}
	tab, ok := c.session.Find(name)
	if !ok || c.loader == nil || tab.Path == "" {
		return "", nil
	}
	s, err := c.loader.Load(model.ParsePath(tab.Path))
	if err != nil {
		return "", fmt.Errorf("load %s: %w", tab.Path, err)
	}
	return s, nil
}

// DirtyBuffers returns the unsaved edits of open modified tabs.
func (c *Controller) DirtyBuffers() map[string]string {
	out := map[string]string{}
	for _, t := range c.session.Tabs() {
		if !t.Modified {
			continue
		}
		if b, ok := c.buffers[t.Name]; ok {
			out[t.Name] = b
		}
	}
	return out
}

// StoredFiles returns the saved content kept for files that have nowhere else to live.
func (c *Controller) StoredFiles() map[string]string {
	out := make(map[string]string, len(c.stored))
	for k, v := range c.stored {
		out[k] = v
	}
	return out
}

// ReplaceTree swaps in a freshly loaded tree, carrying over expansion state.
// Open tabs are left alone even if their files vanished.
func (c *Controller) ReplaceTree(t filetree.Tree) model.Snapshot {
	c.tree = t.WithExpanded(c.tree.ExpandedPaths())
	return c.Snapshot()
}

// CycleTab focuses the next (delta > 0) or previous tab.
func (c *Controller) CycleTab(delta int) model.Snapshot {
	switch {
	case delta > 0:
		c.session = c.session.Next()
	case delta < 0:
		c.session = c.session.Prev()
	}
	return c.Snapshot()
}
