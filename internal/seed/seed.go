// Package seed reads workspace manifests: a static project tree plus the tabs that start open.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hackspace/internal/filetree"
	"hackspace/internal/model"
	"hackspace/internal/tabs"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultManifest string

// Manifest is the TOML shape of a seed file.
type Manifest struct {
	Name   string      `toml:"name"`
	Active string      `toml:"active,omitempty"`
	Tabs   []TabSpec   `toml:"tabs,omitempty"`
	Nodes  []*NodeSpec `toml:"nodes"`
}

type TabSpec struct {
	Name      string `toml:"name"`
	Language  string `toml:"language,omitempty"`
	HasErrors bool   `toml:"has_errors,omitempty"`
	Path      string `toml:"path,omitempty"`
}

type NodeSpec struct {
	Name      string      `toml:"name"`
	Kind      string      `toml:"kind,omitempty"` // "file" (default) or "folder"
	Expanded  bool        `toml:"expanded,omitempty"`
	HasErrors bool        `toml:"has_errors,omitempty"`
	Language  string      `toml:"language,omitempty"`
	Children  []*NodeSpec `toml:"children,omitempty"`
}

// Default returns the built-in demo manifest.
func Default() (*Manifest, error) {
	return Parse(strings.NewReader(defaultManifest))
}

// Load reads a manifest from a TOML file.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return m, nil
}

func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks sibling-name uniqueness and node kinds.
func (m *Manifest) Validate() error {
	var check func(prefix string, level []*NodeSpec) error
	check = func(prefix string, level []*NodeSpec) error {
		seen := map[string]bool{}
		for _, n := range level {
			if n == nil {
				continue
			}
			name := strings.TrimSpace(n.Name)
			if name == "" {
				return fmt.Errorf("node under %q has no name", prefix)
			}
			if strings.Contains(name, "/") {
				return fmt.Errorf("node name %q must not contain '/'", name)
			}
			if seen[name] {
				return fmt.Errorf("duplicate node %q under %q", name, prefix)
			}
			seen[name] = true
			switch strings.ToLower(strings.TrimSpace(n.Kind)) {
			case "", "file":
				if len(n.Children) > 0 {
					return fmt.Errorf("file %q cannot have children", name)
				}
			case "folder", "dir", "directory":
				if err := check(strings.TrimPrefix(prefix+"/"+name, "/"), n.Children); err != nil {
					return err
				}
			default:
				return fmt.Errorf("node %q: unknown kind %q", name, n.Kind)
			}
		}
		return nil
	}
	if err := check("", m.Nodes); err != nil {
		return err
	}
	for _, t := range m.Tabs {
		if strings.TrimSpace(t.Name) == "" {
			return errors.New("tab without a name")
		}
	}
	return nil
}

// Tree converts the manifest nodes to a file tree.
func (m *Manifest) Tree() filetree.Tree {
	var conv func(level []*NodeSpec) []*model.Node
	conv = func(level []*NodeSpec) []*model.Node {
		out := make([]*model.Node, 0, len(level))
		for _, n := range level {
			if n == nil {
				continue
			}
			var kind model.Kind
			_ = kind.UnmarshalText([]byte(n.Kind))
			if kind == model.KindFolder {
				out = append(out, model.Folder(n.Name, n.Expanded, conv(n.Children)...))
				continue
			}
			lang := n.Language
			if lang == "" {
				lang = filetree.LanguageForName(n.Name)
			}
			out = append(out, model.File(n.Name, lang, n.HasErrors))
		}
		return out
	}
	return filetree.New(conv(m.Nodes)...)
}

// Session builds the initial tab session. Tabs without an explicit language pick one up
// from their extension.
func (m *Manifest) Session() tabs.Session {
	entries := make([]model.TabEntry, 0, len(m.Tabs))
	for _, t := range m.Tabs {
		lang := t.Language
		if lang == "" {
			lang = filetree.LanguageForName(t.Name)
		}
		entries = append(entries, model.TabEntry{
			Name:      strings.TrimSpace(t.Name),
			Language:  lang,
			HasErrors: t.HasErrors,
			Path:      t.Path,
		})
	}
	return tabs.Restore(entries, m.Active)
}

// FromWorkspace captures a tree and session as a manifest (used by `seed export`).
func FromWorkspace(name string, tree filetree.Tree, s tabs.Session) *Manifest {
	var conv func(level []*model.Node) []*NodeSpec
	conv = func(level []*model.Node) []*NodeSpec {
		out := make([]*NodeSpec, 0, len(level))
		for _, n := range level {
			spec := &NodeSpec{Name: n.Name}
			if n.IsFolder() {
				spec.Kind = "folder"
				spec.Expanded = n.Expanded
				spec.Children = conv(n.Children)
			} else {
				spec.HasErrors = n.HasErrors
				if n.Language != filetree.LanguageForName(n.Name) {
					spec.Language = n.Language
				}
			}
			out = append(out, spec)
		}
		return out
	}
	m := &Manifest{Name: name, Active: s.Active(), Nodes: conv(tree.Roots())}
	for _, t := range s.Tabs() {
		m.Tabs = append(m.Tabs, TabSpec{Name: t.Name, Language: t.Language, HasErrors: t.HasErrors, Path: t.Path})
	}
	return m
}

// Encode writes the manifest as TOML.
func (m *Manifest) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(m)
}
