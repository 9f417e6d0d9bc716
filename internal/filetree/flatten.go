package filetree

import "hackspace/internal/model"

// Row is one visible line of the tree as a sidebar would draw it.
type Row struct {
	Node  *model.Node
	Path  model.Path
	Depth int
	// Last is true for the last sibling in its folder (used for tree guides).
	Last bool
}

func (r Row) HasChildren() bool { return r.Node.IsFolder() && len(r.Node.Children) > 0 }

// Flatten returns the visible rows: children of collapsed folders are skipped.
func (t Tree) Flatten() []Row {
	var out []Row
	var walk func(prefix model.Path, level []*model.Node, depth int)
	walk = func(prefix model.Path, level []*model.Node, depth int) {
		for i, n := range level {
			if n == nil {
				continue
			}
			p := prefix.Join(n.Name)
			out = append(out, Row{Node: n, Path: p, Depth: depth, Last: i == len(level)-1})
			if n.IsFolder() && n.Expanded {
				walk(p, n.Children, depth+1)
			}
		}
	}
	walk(nil, t.roots, 0)
	return out
}

// IndexOf returns the row index for path, or -1 when it is not visible.
func IndexOf(rows []Row, path model.Path) int {
	for i, r := range rows {
		if r.Path.Equal(path) {
			return i
		}
	}
	return -1
}
