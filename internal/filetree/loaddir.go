package filetree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hackspace/internal/model"
)

// DefaultIgnore lists directory/file names skipped by LoadDir unless overridden.
var DefaultIgnore = []string{".git", ".hackspace", "node_modules", ".DS_Store", "dist", "vendor"}

type LoadOptions struct {
	// Ignore holds base names to skip. nil means DefaultIgnore.
	Ignore []string
	// ExpandTopLevel pre-expands folders at the first level.
	ExpandTopLevel bool
}

// LoadDir builds a tree from the directory at root. Within a folder, subfolders come
// first, then files; each group is sorted by name.
func LoadDir(root string, opts LoadOptions) (Tree, error) {
	root = filepath.Clean(root)
	st, err := os.Stat(root)
	if err != nil {
		return Tree{}, err
	}
	if !st.IsDir() {
		return Tree{}, fmt.Errorf("load tree: %s is not a directory", root)
	}
	ignore := opts.Ignore
	if ignore == nil {
		ignore = DefaultIgnore
	}
	skip := make(map[string]bool, len(ignore))
	for _, n := range ignore {
		if n = strings.TrimSpace(n); n != "" {
			skip[n] = true
		}
	}
	roots, err := readLevel(root, skip, 0, opts)
	if err != nil {
		return Tree{}, err
	}
	return New(roots...), nil
}

func readLevel(dir string, skip map[string]bool, depth int, opts LoadOptions) ([]*model.Node, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var folders, files []*model.Node
	for _, e := range ents {
		name := e.Name()
		if skip[name] {
			continue
		}
		if e.IsDir() {
			children, err := readLevel(filepath.Join(dir, name), skip, depth+1, opts)
			if err != nil {
				return nil, err
			}
			folders = append(folders, model.Folder(name, opts.ExpandTopLevel && depth == 0, children...))
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		files = append(files, model.File(name, LanguageForName(name), false))
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return append(folders, files...), nil
}
