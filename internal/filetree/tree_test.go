package filetree

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hackspace/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() Tree {
	return New(
		model.Folder("src", true,
			model.Folder("components", false,
				model.File("Header.jsx", "javascript", false),
				model.File("Sidebar.jsx", "javascript", true),
			),
			model.File("App.jsx", "javascript", false),
			model.File("index.css", "css", false),
		),
		model.Folder("public", false,
			model.File("index.html", "html", false),
		),
		model.Folder("empty", false),
		model.File("package.json", "json", false),
	)
}

func TestFindNode(t *testing.T) {
	t.Parallel()
	tr := sampleTree()

	n, ok := tr.FindNode(model.Path{"src", "components", "Sidebar.jsx"})
	require.True(t, ok)
	assert.Equal(t, "Sidebar.jsx", n.Name)
	assert.True(t, n.HasErrors)

	for _, p := range []model.Path{nil, {"nope"}, {"src", "nope"}, {"package.json", "child"}} {
		_, ok := tr.FindNode(p)
		assert.False(t, ok, "path %v", p)
	}
}

func TestLookup_ReturnsPathNotFound(t *testing.T) {
	t.Parallel()
	_, err := sampleTree().Lookup(model.ParsePath("src/missing.js"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPathNotFound))
	assert.Contains(t, err.Error(), "src/missing.js")
}

func TestToggleFolder_SrcScenario(t *testing.T) {
	t.Parallel()
	tr := sampleTree()
	before, _ := tr.FindNode(model.Path{"src"})
	require.True(t, before.Expanded)

	next := tr.ToggleFolder(model.Path{"src"})
	after, _ := next.FindNode(model.Path{"src"})
	assert.False(t, after.Expanded)

	// Children are the same nodes.
	require.Len(t, after.Children, len(before.Children))
	for i := range before.Children {
		assert.Same(t, before.Children[i], after.Children[i])
	}

	// The original value is untouched.
	orig, _ := tr.FindNode(model.Path{"src"})
	assert.True(t, orig.Expanded)
}

func TestToggleFolder_Idempotence(t *testing.T) {
	t.Parallel()
	paths := []model.Path{{"src"}, {"src", "components"}, {"public"}, {"empty"}}
	for _, p := range paths {
		tr := sampleTree()
		n0, _ := tr.FindNode(p)
		twice := tr.ToggleFolder(p).ToggleFolder(p)
		n2, _ := twice.FindNode(p)
		assert.Equal(t, n0.Expanded, n2.Expanded, "path %v", p)
	}
}

func TestToggleFolder_SharesUntouchedSubtrees(t *testing.T) {
	t.Parallel()
	tr := sampleTree()
	next := tr.ToggleFolder(model.Path{"src", "components"})

	oldRoots := tr.Roots()
	newRoots := next.Roots()
	assert.NotSame(t, oldRoots[0], newRoots[0], "ancestor must be cloned")
	assert.Same(t, oldRoots[1], newRoots[1])
	assert.Same(t, oldRoots[2], newRoots[2])
	assert.Same(t, oldRoots[3], newRoots[3])

	// Siblings of the toggled folder are shared too.
	assert.Same(t, oldRoots[0].Children[1], newRoots[0].Children[1])
	assert.Same(t, oldRoots[0].Children[2], newRoots[0].Children[2])
}

func TestToggleFolder_NoOps(t *testing.T) {
	t.Parallel()
	tr := sampleTree()
	for _, p := range []model.Path{{"package.json"}, {"src", "App.jsx"}, {"missing"}, {"src", "x", "y"}, nil} {
		next := tr.ToggleFolder(p)
		assert.Equal(t, tr.Roots(), next.Roots(), "path %v", p)
	}
}

func TestFlatten_HidesCollapsedChildren(t *testing.T) {
	t.Parallel()
	rows := sampleTree().Flatten()
	var got []string
	for _, r := range rows {
		got = append(got, r.Path.String())
	}
	assert.Equal(t, []string{
		"src",
		"src/components",
		"src/App.jsx",
		"src/index.css",
		"public",
		"empty",
		"package.json",
	}, got)
	assert.Equal(t, 1, rows[1].Depth)
	assert.True(t, rows[3].Last)
	assert.Equal(t, 2, IndexOf(rows, model.Path{"src", "App.jsx"}))
	assert.Equal(t, -1, IndexOf(rows, model.Path{"public", "index.html"}))
}

func TestExpandedPaths_RoundTrip(t *testing.T) {
	t.Parallel()
	tr := sampleTree().ToggleFolder(model.Path{"src", "components"})
	paths := tr.ExpandedPaths()
	assert.Equal(t, []string{"src", "src/components"}, paths)

	restored := sampleTree().SetAllExpanded(false).WithExpanded(append(paths, "gone/folder"))
	assert.Equal(t, paths, restored.ExpandedPaths())
}

func TestFiles(t *testing.T) {
	t.Parallel()
	var got []string
	for _, p := range sampleTree().Files() {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{
		"src/components/Header.jsx",
		"src/components/Sidebar.jsx",
		"src/App.jsx",
		"src/index.css",
		"public/index.html",
		"package.json",
	}, got)
}

func TestLoadDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	mustWrite := func(rel string) {
		t.Helper()
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	mustWrite("src/main.go")
	mustWrite("src/util/strings.go")
	mustWrite("README.md")
	mustWrite("node_modules/dep/index.js")
	mustWrite(".git/HEAD")

	tr, err := LoadDir(root, LoadOptions{ExpandTopLevel: true})
	require.NoError(t, err)

	var got []string
	for _, r := range tr.Flatten() {
		got = append(got, r.Path.String())
	}
	assert.Equal(t, []string{"src", "src/util", "src/main.go", "README.md"}, got)

	readme, ok := tr.FindNode(model.Path{"README.md"})
	require.True(t, ok)
	assert.Equal(t, "markdown", readme.Language)
}

func TestLoadDir_NotADirectory(t *testing.T) {
	t.Parallel()
	f := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	_, err := LoadDir(f, LoadOptions{})
	assert.Error(t, err)
}

func TestLanguageForName(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"App.jsx":    "javascript",
		"index.CSS":  "css",
		"Dockerfile": "dockerfile",
		"noext":      "",
	}
	for name, want := range tests {
		assert.Equal(t, want, LanguageForName(name), name)
	}
}
