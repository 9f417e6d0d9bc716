package store

import (
	"context"
	"testing"

	"hackspace/internal/filetree"
	"hackspace/internal/model"
	"hackspace/internal/tabs"
	"hackspace/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	_, ok, err := s.LoadSession(ctx, "seed:demo")
	require.NoError(t, err)
	assert.False(t, ok)

	want := &SessionState{
		Workspace: "seed:demo",
		Tabs: []model.TabEntry{
			{Name: "index.css", Language: "css", Path: "src/index.css"},
			{Name: "App.jsx", Language: "javascript", HasErrors: true, Modified: true, Path: "src/App.jsx"},
		},
		Active:   "App.jsx",
		Expanded: []string{"src", "src/components"},
		Buffers:  map[string]string{"App.jsx": "export default App\n"},
	}
	require.NoError(t, s.SaveSession(ctx, want))

	got, ok, err := s.LoadSession(ctx, "seed:demo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Tabs, got.Tabs)
	assert.Equal(t, want.Active, got.Active)
	assert.Equal(t, want.Expanded, got.Expanded)
	assert.Equal(t, want.Buffers, got.Buffers)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestSession_SaveReplacesPrevious(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	require.NoError(t, s.SaveSession(ctx, &SessionState{
		Workspace: "w",
		Tabs:      []model.TabEntry{{Name: "a"}, {Name: "b"}},
		Active:    "b",
		Buffers:   map[string]string{"a": "x"},
	}))
	require.NoError(t, s.SaveSession(ctx, &SessionState{
		Workspace: "w",
		Tabs:      []model.TabEntry{{Name: "c"}},
		Active:    "c",
	}))

	got, ok, err := s.LoadSession(ctx, "w")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []model.TabEntry{{Name: "c"}}, got.Tabs)
	assert.Empty(t, got.Buffers)
	assert.Equal(t, []string{}, got.Expanded)
}

func TestSession_WorkspacesAreIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	require.NoError(t, s.SaveSession(ctx, &SessionState{Workspace: "one", Tabs: []model.TabEntry{{Name: "a"}}, Active: "a"}))
	require.NoError(t, s.SaveSession(ctx, &SessionState{Workspace: "two", Tabs: []model.TabEntry{{Name: "b"}}, Active: "b"}))
	require.NoError(t, s.DeleteSession(ctx, "one"))

	_, ok, err := s.LoadSession(ctx, "one")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := s.LoadSession(ctx, "two")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", got.Active)
}

func TestSession_EmptyWorkspaceKey(t *testing.T) {
	t.Parallel()
	s := Store{Dir: t.TempDir()}
	_, _, err := s.LoadSession(context.Background(), " ")
	assert.Error(t, err)
	assert.Error(t, s.SaveSession(context.Background(), &SessionState{}))
	assert.Error(t, s.SaveSession(context.Background(), nil))
}

func TestStateFrom_SeparatesEditsFromStoredFiles(t *testing.T) {
	t.Parallel()
	tree := filetree.New(model.Folder("src", true,
		model.File("App.jsx", "javascript", false),
		model.File("index.css", "css", false),
	))
	c := workspace.New(tree, tabs.Session{})
	c.OnNodeClick(model.Path{"src", "App.jsx"})
	c.OnNodeClick(model.Path{"src", "index.css"})
	c.OnFileEdited("App.jsx", "let x = 1\n")
	c.OnFileEdited("index.css", "body {}")
	_, err := c.OnFileSaved("index.css")
	require.NoError(t, err)

	st := StateFrom("seed:demo", c)
	assert.Equal(t, "seed:demo", st.Workspace)
	assert.Equal(t, "index.css", st.Active)
	assert.Len(t, st.Tabs, 2)
	assert.Equal(t, []string{"src"}, st.Expanded)
	assert.Equal(t, map[string]string{"App.jsx": "let x = 1\n"}, st.Buffers)
	assert.Equal(t, map[string]string{"index.css": "body {}"}, st.Stored)
}

func TestSession_StoredFilesRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	require.NoError(t, s.SaveSession(ctx, &SessionState{
		Workspace: "w",
		Tabs:      []model.TabEntry{{Name: "index.css", Path: "src/index.css"}},
		Active:    "index.css",
		Stored:    map[string]string{"index.css": "body {}", "closed.js": "x"},
	}))
	got, ok, err := s.LoadSession(ctx, "w")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"index.css": "body {}", "closed.js": "x"}, got.Stored)
	assert.Empty(t, got.Buffers)

	require.NoError(t, s.DeleteSession(ctx, "w"))
	require.NoError(t, s.SaveSession(ctx, &SessionState{Workspace: "w"}))
	got, _, err = s.LoadSession(ctx, "w")
	require.NoError(t, err)
	assert.Empty(t, got.Stored)
}

func TestOpenedStore_ReusesOneConnection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, err := Store{Dir: t.TempDir()}.Open(ctx)
	require.NoError(t, err)
	defer s.Close()

	st := &SessionState{
		Workspace: "w",
		Tabs:      []model.TabEntry{{Name: "a", Modified: true}, {Name: "b"}},
		Active:    "a",
		Buffers:   map[string]string{"a": "edit"},
		Stored:    map[string]string{"b": "saved"},
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, s.SaveSession(ctx, st))
		require.NoError(t, s.AppendEvent(ctx, "w", workspace.FileEdited("a", "edit"), model.Snapshot{ActiveTab: "a"}))
	}
	got, ok, err := s.LoadSession(ctx, "w")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st.Tabs, got.Tabs)
	assert.Equal(t, st.Buffers, got.Buffers)
	assert.Equal(t, st.Stored, got.Stored)

	evs, err := s.ReadEventsTail(ctx, "w", 0)
	require.NoError(t, err)
	assert.Len(t, evs, 20)

	// Close does nothing on a Store that was never opened.
	assert.NoError(t, Store{Dir: t.TempDir()}.Close())
}
