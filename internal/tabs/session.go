package tabs

import (
	"errors"
	"fmt"

	"hackspace/internal/model"
)

// ErrInvalidTab is returned when a tab name is not part of the session.
var ErrInvalidTab = errors.New("invalid tab")

// InvalidTabError carries the offending name and unwraps to ErrInvalidTab.
type InvalidTabError struct {
	Name string
}

func (e InvalidTabError) Error() string {
	return fmt.Sprintf("%s: %q is not open", ErrInvalidTab.Error(), e.Name)
}

func (e InvalidTabError) Unwrap() error { return ErrInvalidTab }

// Session is the ordered set of open tabs plus the active one.
//
// Session is a value: every mutation returns a new Session and leaves the receiver as it was.
// Invariants:
//   - tab names are unique
//   - active is "" iff there are no tabs, otherwise it names one of them
type Session struct {
	tabs   []model.TabEntry
	active string
}

// Restore builds a session from persisted data, repairing anything that would break the
// invariants: later duplicates are dropped and a stale active name falls back to the last tab.
func Restore(tabs []model.TabEntry, active string) Session {
	seen := make(map[string]bool, len(tabs))
	out := make([]model.TabEntry, 0, len(tabs))
	for _, t := range tabs {
		if t.Name == "" || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	s := Session{tabs: out}
	switch {
	case len(out) == 0:
		s.active = ""
	case seen[active]:
		s.active = active
	default:
		s.active = out[len(out)-1].Name
	}
	return s
}

// Tabs returns a copy of the open tabs in tab-bar order.
func (s Session) Tabs() []model.TabEntry {
	out := make([]model.TabEntry, len(s.tabs))
	copy(out, s.tabs)
	return out
}

func (s Session) Active() string { return s.active }
func (s Session) Len() int       { return len(s.tabs) }

func (s Session) Find(name string) (model.TabEntry, bool) {
	if i := s.index(name); i >= 0 {
		return s.tabs[i], true
	}
	return model.TabEntry{}, false
}

func (s Session) index(name string) int {
	for i, t := range s.tabs {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// OpenFile focuses the tab called name, appending it first when it isn't open yet.
func (s Session) OpenFile(name, language string, hasErrors bool) Session {
	return s.OpenPath(name, "", language, hasErrors)
}

// OpenPath is OpenFile that also records which tree path the tab came from.
// An already-open tab keeps its original entry.
func (s Session) OpenPath(name, path, language string, hasErrors bool) Session {
	if name == "" {
		return s
	}
	if s.index(name) >= 0 {
		return Session{tabs: s.tabs, active: name}
	}
	out := make([]model.TabEntry, len(s.tabs), len(s.tabs)+1)
	copy(out, s.tabs)
	out = append(out, model.TabEntry{
		Name:      name,
		Language:  language,
		HasErrors: hasErrors,
		Path:      path,
	})
	return Session{tabs: out, active: name}
}

// CloseTab removes the named tab. Closing the active tab focuses the last remaining tab,
// not the neighbour. Unknown names are ignored.
func (s Session) CloseTab(name string) Session {
	i := s.index(name)
	if i < 0 {
		return s
	}
	out := make([]model.TabEntry, 0, len(s.tabs)-1)
	out = append(out, s.tabs[:i]...)
	out = append(out, s.tabs[i+1:]...)

	active := s.active
	if active == name {
		active = ""
		if len(out) > 0 {
			active = out[len(out)-1].Name
		}
	}
	return Session{tabs: out, active: active}
}

// SetActiveTab focuses an open tab.
func (s Session) SetActiveTab(name string) (Session, error) {
	if s.index(name) < 0 {
		return s, InvalidTabError{Name: name}
	}
	return Session{tabs: s.tabs, active: name}, nil
}

// MarkModified sets the unsaved-changes flag. Unknown names are ignored.
func (s Session) MarkModified(name string, modified bool) Session {
	i := s.index(name)
	if i < 0 || s.tabs[i].Modified == modified {
		return s
	}
	out := make([]model.TabEntry, len(s.tabs))
	copy(out, s.tabs)
	out[i].Modified = modified
	return Session{tabs: out, active: s.active}
}

// Next focuses the tab after the active one, wrapping around.
func (s Session) Next() Session { return s.cycle(1) }

// Prev focuses the tab before the active one, wrapping around.
func (s Session) Prev() Session { return s.cycle(-1) }

func (s Session) cycle(delta int) Session {
	if len(s.tabs) == 0 {
		return s
	}
	i := s.index(s.active)
	if i < 0 {
		i = 0
	}
	n := len(s.tabs)
	j := ((i+delta)%n + n) % n
	return Session{tabs: s.tabs, active: s.tabs[j].Name}
}

// AnyModified reports whether some open tab has unsaved changes.
func (s Session) AnyModified() bool {
	for _, t := range s.tabs {
		if t.Modified {
			return true
		}
	}
	return false
}
