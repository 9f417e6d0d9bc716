package model

import "strings"

// Kind distinguishes files from folders in a project tree.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	default:
		return "file"
	}
}

// MarshalText keeps the JSON/YAML representation readable ("file"/"folder").
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "folder", "dir", "directory":
		*k = KindFolder
	default:
		*k = KindFile
	}
	return nil
}

// Node is one entry in a project tree.
//
// Nodes are treated as immutable once they are reachable from a snapshot: updates clone
// the nodes on the path to the change and share everything else.
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Kind     Kind    `json:"kind" yaml:"kind"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`

	// Folder only.
	Expanded bool `json:"expanded,omitempty" yaml:"expanded,omitempty"`

	// File only. Advisory; never blocks an operation.
	HasErrors bool   `json:"hasErrors,omitempty" yaml:"hasErrors,omitempty"`
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`
}

func (n *Node) IsFolder() bool { return n != nil && n.Kind == KindFolder }
func (n *Node) IsFile() bool   { return n != nil && n.Kind == KindFile }

// Child returns the direct child with the given name.
func (n *Node) Child(name string) (*Node, int, bool) {
	if n == nil {
		return nil, -1, false
	}
	for i, ch := range n.Children {
		if ch != nil && ch.Name == name {
			return ch, i, true
		}
	}
	return nil, -1, false
}

// Clone returns a shallow copy: the children slice is copied, the children themselves are shared.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		copy(cp.Children, n.Children)
	}
	return &cp
}

// File builds a file node.
func File(name, language string, hasErrors bool) *Node {
	return &Node{Name: name, Kind: KindFile, Language: language, HasErrors: hasErrors}
}

// Folder builds a folder node.
func Folder(name string, expanded bool, children ...*Node) *Node {
	return &Node{Name: name, Kind: KindFolder, Expanded: expanded, Children: children}
}

// Path identifies a node by the names from the top of the tree down to it.
type Path []string

// ParsePath splits "src/components/App.jsx" into its segments.
// Empty segments are dropped, so leading/trailing/double slashes are tolerated.
func ParsePath(s string) Path {
	parts := strings.Split(strings.ReplaceAll(s, "\\", "/"), "/")
	out := make(Path, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "." {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (p Path) String() string { return strings.Join(p, "/") }

// Base is the last segment (the node's own name).
func (p Path) Base() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Join returns a new path with name appended; p is not modified.
func (p Path) Join(name string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = name
	return out
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// TabEntry is one open file in the tab bar.
type TabEntry struct {
	Name      string `json:"name" yaml:"name"`
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`
	HasErrors bool   `json:"hasErrors" yaml:"hasErrors"`
	Modified  bool   `json:"modified" yaml:"modified"`

	// Path is the tree path the tab was opened from. Empty for tabs that don't
	// reference a tree node (e.g. pre-seeded tabs).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Snapshot is the point-in-time view handed to a presentation layer after every event.
type Snapshot struct {
	Tree      []*Node    `json:"tree" yaml:"tree"`
	OpenTabs  []TabEntry `json:"openTabs" yaml:"openTabs"`
	ActiveTab string     `json:"activeTab,omitempty" yaml:"activeTab,omitempty"`
}

// HasActive reports whether a tab is focused.
func (s Snapshot) HasActive() bool { return s.ActiveTab != "" }
