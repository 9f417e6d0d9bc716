package filetree

import (
	"errors"
	"fmt"

	"hackspace/internal/model"
)

// ErrPathNotFound is returned by Lookup when a path does not resolve to a node.
var ErrPathNotFound = errors.New("path not found")

type pathNotFoundError struct {
	path model.Path
}

func (e pathNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPathNotFound.Error(), e.path.String())
}

func (e pathNotFoundError) Unwrap() error { return ErrPathNotFound }

// Tree is an ordered forest of nodes. The zero value is an empty tree.
//
// Tree values are immutable: every update returns a new Tree and reuses unchanged subtrees
// by pointer, so callers can compare nodes with == to skip re-rendering.
type Tree struct {
	roots []*model.Node
}

// New wraps roots as a tree. The caller must not mutate roots afterwards.
func New(roots ...*model.Node) Tree {
	return Tree{roots: roots}
}

// Roots returns the top-level nodes. The slice is a copy; the nodes are shared.
func (t Tree) Roots() []*model.Node {
	out := make([]*model.Node, len(t.roots))
	copy(out, t.roots)
	return out
}

func (t Tree) Len() int { return len(t.roots) }

// FindNode returns the node at path. Missing paths report ok=false.
func (t Tree) FindNode(path model.Path) (*model.Node, bool) {
	if len(path) == 0 {
		return nil, false
	}
	level := t.roots
	var cur *model.Node
	for _, name := range path {
		cur = nil
		for _, n := range level {
			if n != nil && n.Name == name {
				cur = n
				break
			}
		}
		if cur == nil {
			return nil, false
		}
		level = cur.Children
	}
	return cur, true
}

// Lookup is FindNode with an error for callers that want to report missing paths.
func (t Tree) Lookup(path model.Path) (*model.Node, error) {
	n, ok := t.FindNode(path)
	if !ok {
		return nil, pathNotFoundError{path: path}
	}
	return n, nil
}

// ToggleFolder flips Expanded on the folder at path.
// Files and unresolved paths leave the tree untouched (the same Tree is returned).
func (t Tree) ToggleFolder(path model.Path) Tree {
	n, ok := t.FindNode(path)
	if !ok || !n.IsFolder() {
		return t
	}
	return t.SetExpanded(path, !n.Expanded)
}

// SetExpanded sets Expanded on the folder at path. No-op for files and missing paths,
// or when the folder already has the requested state.
func (t Tree) SetExpanded(path model.Path, expanded bool) Tree {
	n, ok := t.FindNode(path)
	if !ok || !n.IsFolder() || n.Expanded == expanded {
		return t
	}
	roots, ok := rewrite(t.roots, path, func(n *model.Node) *model.Node {
		cp := n.Clone()
		cp.Expanded = expanded
		return cp
	})
	if !ok {
		return t
	}
	return Tree{roots: roots}
}

// rewrite replaces the node at path with fn(node), cloning only the ancestors of the
// replaced node. Siblings at every level are shared with the original.
func rewrite(level []*model.Node, path model.Path, fn func(*model.Node) *model.Node) ([]*model.Node, bool) {
	if len(path) == 0 {
		return level, false
	}
	for i, n := range level {
		if n == nil || n.Name != path[0] {
			continue
		}
		var repl *model.Node
		if len(path) == 1 {
			repl = fn(n)
		} else {
			children, ok := rewrite(n.Children, path[1:], fn)
			if !ok {
				return level, false
			}
			repl = n.Clone()
			repl.Children = children
		}
		out := make([]*model.Node, len(level))
		copy(out, level)
		out[i] = repl
		return out, true
	}
	return level, false
}

// Walk visits every node depth-first in display order, including children of collapsed
// folders. Returning false from fn stops descending into that node's children.
func (t Tree) Walk(fn func(path model.Path, n *model.Node) bool) {
	var walk func(prefix model.Path, level []*model.Node)
	walk = func(prefix model.Path, level []*model.Node) {
		for _, n := range level {
			if n == nil {
				continue
			}
			p := prefix.Join(n.Name)
			if !fn(p, n) {
				continue
			}
			if n.IsFolder() {
				walk(p, n.Children)
			}
		}
	}
	walk(nil, t.roots)
}

// Files returns the paths of every file in the tree in display order.
func (t Tree) Files() []model.Path {
	var out []model.Path
	t.Walk(func(p model.Path, n *model.Node) bool {
		if n.IsFile() {
			out = append(out, p)
		}
		return true
	})
	return out
}

// ExpandedPaths lists the expanded folders (as "a/b" strings) for persistence.
func (t Tree) ExpandedPaths() []string {
	var out []string
	t.Walk(func(p model.Path, n *model.Node) bool {
		if n.IsFolder() && n.Expanded {
			out = append(out, p.String())
		}
		return true
	})
	return out
}

// WithExpanded returns a tree whose folders are expanded exactly when listed in paths.
// Paths that no longer resolve are ignored.
func (t Tree) WithExpanded(paths []string) Tree {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[model.ParsePath(p).String()] = true
	}
	out := t
	t.Walk(func(p model.Path, n *model.Node) bool {
		if n.IsFolder() {
			out = out.SetExpanded(p, want[p.String()])
		}
		return true
	})
	return out
}

// SetAllExpanded expands or collapses every folder.
func (t Tree) SetAllExpanded(expanded bool) Tree {
	out := t
	t.Walk(func(p model.Path, n *model.Node) bool {
		if n.IsFolder() {
			out = out.SetExpanded(p, expanded)
		}
		return true
	})
	return out
}
