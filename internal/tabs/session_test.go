package tabs

import (
	"errors"
	"math/rand"
	"testing"

	"hackspace/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(s Session) []string {
	var out []string
	for _, t := range s.Tabs() {
		out = append(out, t.Name)
	}
	return out
}

func openAll(xs ...string) Session {
	var s Session
	for _, x := range xs {
		s = s.OpenFile(x, "", false)
	}
	return s
}

func TestOpenFile_Scenario(t *testing.T) {
	t.Parallel()
	var s Session
	assert.Equal(t, "", s.Active())

	s = s.OpenFile("index.css", "css", false)
	require.Equal(t, []model.TabEntry{{Name: "index.css", Language: "css"}}, s.Tabs())
	assert.Equal(t, "index.css", s.Active())

	s = s.OpenFile("App.jsx", "javascript", false)
	assert.Equal(t, []string{"index.css", "App.jsx"}, names(s))
	assert.Equal(t, "App.jsx", s.Active())

	s = s.CloseTab("App.jsx")
	assert.Equal(t, []string{"index.css"}, names(s))
	assert.Equal(t, "index.css", s.Active())
}

func TestOpenFile_ExistingDoesNotDuplicate(t *testing.T) {
	t.Parallel()
	s := openAll("App.jsx", "index.css")
	require.Equal(t, "index.css", s.Active())

	s2 := s.OpenFile("App.jsx", "javascript", true)
	assert.Equal(t, 2, s2.Len())
	assert.Equal(t, "App.jsx", s2.Active())

	// The original entry wins.
	tab, ok := s2.Find("App.jsx")
	require.True(t, ok)
	assert.False(t, tab.HasErrors)
}

func TestCloseTab_SelectsLastRemaining(t *testing.T) {
	t.Parallel()
	s := openAll("A", "B", "C")
	s, err := s.SetActiveTab("B")
	require.NoError(t, err)

	s = s.CloseTab("B")
	assert.Equal(t, []string{"A", "C"}, names(s))
	assert.Equal(t, "C", s.Active())
}

func TestCloseTab_InactiveKeepsActive(t *testing.T) {
	t.Parallel()
	s := openAll("A", "B", "C")
	s, _ = s.SetActiveTab("A")
	s = s.CloseTab("C")
	assert.Equal(t, "A", s.Active())
}

func TestCloseTab_LastOneClearsActive(t *testing.T) {
	t.Parallel()
	s := openAll("only").CloseTab("only")
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.Active())
}

func TestCloseTab_UnknownIsNoOp(t *testing.T) {
	t.Parallel()
	s := openAll("A", "B")
	s2 := s.CloseTab("Z")
	assert.Equal(t, names(s), names(s2))
	assert.Equal(t, s.Active(), s2.Active())
}

func TestSetActiveTab_Invalid(t *testing.T) {
	t.Parallel()
	s := openAll("A")
	s2, err := s.SetActiveTab("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTab))
	var ite InvalidTabError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, "missing", ite.Name)
	assert.Equal(t, "A", s2.Active())
}

func TestMarkModified(t *testing.T) {
	t.Parallel()
	s := openAll("A", "B")
	s2 := s.MarkModified("A", true)
	tab, _ := s2.Find("A")
	assert.True(t, tab.Modified)
	assert.True(t, s2.AnyModified())

	// Receiver untouched.
	orig, _ := s.Find("A")
	assert.False(t, orig.Modified)

	s3 := s2.MarkModified("missing", true)
	assert.Equal(t, s2.Tabs(), s3.Tabs())

	s4 := s2.MarkModified("A", false)
	assert.False(t, s4.AnyModified())
}

func TestNextPrev_Wraps(t *testing.T) {
	t.Parallel()
	s := openAll("A", "B", "C")
	assert.Equal(t, "A", s.Next().Active())
	assert.Equal(t, "B", s.Prev().Active())
	assert.Equal(t, "", Session{}.Next().Active())
}

func TestRestore_RepairsInvariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		tabs       []model.TabEntry
		active     string
		wantNames  []string
		wantActive string
	}{
		{name: "empty", tabs: nil, active: "x", wantNames: nil, wantActive: ""},
		{name: "valid", tabs: []model.TabEntry{{Name: "a"}, {Name: "b"}}, active: "a", wantNames: []string{"a", "b"}, wantActive: "a"},
		{name: "stale active", tabs: []model.TabEntry{{Name: "a"}, {Name: "b"}}, active: "gone", wantNames: []string{"a", "b"}, wantActive: "b"},
		{name: "duplicates", tabs: []model.TabEntry{{Name: "a"}, {Name: "b"}, {Name: "a", Modified: true}}, active: "a", wantNames: []string{"a", "b"}, wantActive: "a"},
		{name: "blank names dropped", tabs: []model.TabEntry{{Name: ""}, {Name: "b"}}, active: "", wantNames: []string{"b"}, wantActive: "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Restore(tt.tabs, tt.active)
			assert.Equal(t, tt.wantNames, names(s))
			assert.Equal(t, tt.wantActive, s.Active())
		})
	}
}

// Random operation sequences must never break uniqueness or the active-tab invariant.
func TestSession_InvariantsUnderRandomOperations(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(42))
	pool := []string{"a", "b", "c", "d", "e"}

	var s Session
	for i := 0; i < 5000; i++ {
		name := pool[r.Intn(len(pool))]
		switch r.Intn(4) {
		case 0:
			s = s.OpenFile(name, "", false)
		case 1:
			s = s.CloseTab(name)
		case 2:
			if next, err := s.SetActiveTab(name); err == nil {
				s = next
			}
		case 3:
			s = s.MarkModified(name, r.Intn(2) == 0)
		}

		seen := map[string]bool{}
		for _, tab := range s.Tabs() {
			require.False(t, seen[tab.Name], "duplicate tab %q", tab.Name)
			seen[tab.Name] = true
		}
		if s.Len() == 0 {
			require.Equal(t, "", s.Active())
		} else {
			require.True(t, seen[s.Active()], "active %q not open", s.Active())
		}
	}
}
