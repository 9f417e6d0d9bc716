package workspace

import "hackspace/internal/model"

// EventType names an input event. The string values are what the journal stores.
type EventType string

const (
	EventNodeClicked EventType = "node.clicked"
	EventTabClicked  EventType = "tab.clicked"
	EventTabClosed   EventType = "tab.closed"
	EventFileEdited  EventType = "file.edited"
	EventFileSaved   EventType = "file.saved"
)

// Event is one discrete user action.
type Event struct {
	Type EventType `json:"type"`
	// Path is set for node.clicked.
	Path model.Path `json:"path,omitempty"`
	// Name is set for tab and file events.
	Name string `json:"name,omitempty"`
	// Content is set for file.edited.
	Content string `json:"content,omitempty"`
}

func NodeClicked(path model.Path) Event { return Event{Type: EventNodeClicked, Path: path} }
func TabClicked(name string) Event      { return Event{Type: EventTabClicked, Name: name} }
func TabClosed(name string) Event       { return Event{Type: EventTabClosed, Name: name} }
func FileSaved(name string) Event       { return Event{Type: EventFileSaved, Name: name} }

func FileEdited(name, content string) Event {
	return Event{Type: EventFileEdited, Name: name, Content: content}
}

// Subject is the path or tab name the event is about.
func (e Event) Subject() string {
	if e.Type == EventNodeClicked {
		return e.Path.String()
	}
	return e.Name
}
