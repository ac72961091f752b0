package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablePromotion(t *testing.T) {
	t.Parallel()
	g := NewGraph("test")
	root := g.Root()

	chars := []byte("dcba")
	targets := make([]StateID, len(chars))
	for i, c := range chars {
		targets[i] = g.NewState()
		g.Connect(root, c, targets[i], ActionNone, 0)

		for j := 0; j <= i; j++ {
			e, ok := g.Edge(root, chars[j])
			require.True(t, ok, "edge %q after %d inserts", chars[j], i+1)
			assert.Equal(t, targets[j], e.Target)
		}
		_, ok := g.Edge(root, 'z')
		assert.False(t, ok)
	}

	edges := g.Edges(root)
	require.Len(t, edges, 4)
	for i, want := range []byte("abcd") {
		assert.Equal(t, want, edges[i].Char)
	}
}

func TestConnectReplacesEdge(t *testing.T) {
	t.Parallel()
	g := NewGraph("test")
	a, b := g.NewState(), g.NewState()

	g.Connect(g.Root(), 'x', a, ActionNone, 0)
	g.Connect(g.Root(), 'x', b, ActionDigit, 7)

	e, ok := g.Edge(g.Root(), 'x')
	require.True(t, ok)
	assert.Equal(t, b, e.Target)
	assert.Equal(t, ActionDigit, e.Action)
	assert.Equal(t, 7, e.Payload)
	assert.Len(t, g.Edges(g.Root()), 1)
}

func TestMarkFinalTwice(t *testing.T) {
	t.Parallel()
	g := NewGraph("test")
	s := g.NewState()

	require.NoError(t, g.MarkFinal(s, TagProperty, 1))
	err := g.MarkFinal(s, TagOrderBy, 1)
	assert.ErrorIs(t, err, ErrConflict)

	tag, value := g.Final(s)
	assert.Equal(t, TagProperty, tag)
	assert.Equal(t, 1, value)
}

func TestTagSet(t *testing.T) {
	t.Parallel()
	set := Tags(TagProperty, TagAnd, TagOr)

	assert.True(t, set.Has(TagProperty))
	assert.True(t, set.Has(TagAnd))
	assert.True(t, set.Has(TagOr))
	assert.False(t, set.Has(TagOrderBy))
	assert.False(t, set.Has(TagNone))
}

func TestGraphEqual(t *testing.T) {
	t.Parallel()
	build := func(words ...string) *Graph {
		g := NewGraph("test")
		kws := make([]Keyword, len(words))
		for i, w := range words {
			kws[i] = Keyword{Text: w, Tag: TagProperty, Value: i}
		}
		SortKeywords(kws)
		_, err := g.Insert(g.Root(), kws)
		require.NoError(t, err)
		return g
	}

	tests := []struct {
		name     string
		a, b     *Graph
		expectEq bool
	}{
		{"empty", NewGraph("a"), NewGraph("b"), true},
		{"same words", build("Name", "Age"), build("Name", "Age"), true},
		{"different words", build("Name"), build("Nome"), false},
		{"different values", build("Name", "Age"), build("Age", "Name"), false},
		{"prefix only", build("Name"), build("Name", "Nam"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expectEq, tt.a.Equal(tt.b))
		})
	}
}

func TestDebugString(t *testing.T) {
	t.Parallel()
	g := NewGraph("test")
	_, err := g.Insert(g.Root(), []Keyword{
		{Text: "ab", Tag: TagProperty},
		{Text: "a", Tag: TagProperty, Value: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "a(*PROPERTYb(*PROPERTY))", g.DebugString())
}

func TestDebugStringSharedState(t *testing.T) {
	t.Parallel()
	g := NewGraph("test")
	shared := g.NewState()
	require.NoError(t, g.MarkFinal(shared, TagAnd, 0))
	g.Connect(g.Root(), 'a', shared, ActionNone, 0)
	g.Connect(g.Root(), 'b', shared, ActionNone, 0)

	assert.Equal(t, "a(*AND)b(@1)", g.DebugString())
}
