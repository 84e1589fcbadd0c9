package story_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

func choice(t *testing.T, targets ...int) *story.Page {
	t.Helper()
	cs := make([]story.Choice, len(targets))
	for i, tgt := range targets {
		cs[i] = story.Choice{Text: "go", Target: tgt}
	}
	p, err := story.NewPage(story.KindChoice, cs, []string{"a page"})
	require.NoError(t, err)
	return p
}

func win(t *testing.T) *story.Page {
	t.Helper()
	p, err := story.NewPage(story.KindWin, nil, []string{"you win"})
	require.NoError(t, err)
	return p
}

func lose(t *testing.T) *story.Page {
	t.Helper()
	p, err := story.NewPage(story.KindLose, nil, []string{"you lose"})
	require.NoError(t, err)
	return p
}

func build(t *testing.T, pages ...*story.Page) *story.Graph {
	t.Helper()
	g, err := story.Build(pages)
	require.NoError(t, err)
	return g
}

func TestBuild_Valid(t *testing.T) {
	g := build(t, choice(t, 2, 3), lose(t), win(t))

	assert.Equal(t, 3, g.PageCount())
	for k := 1; k <= g.PageCount(); k++ {
		p, err := g.Page(k)
		require.NoError(t, err)
		assert.Equal(t, k, p.Ordinal())
	}
	wins, losses := g.OutcomeCounts()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	refs, err := g.ReferencedBy(3)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, refs)

	start, err := g.ReferencedBy(1)
	require.NoError(t, err)
	assert.Empty(t, start)
}

func TestBuild_ReferencedByDeduplicates(t *testing.T) {
	g := build(t, choice(t, 2, 2, 3), choice(t, 3, 1, 4), win(t), lose(t))

	want := map[int][]int{1: {2}, 2: {1}, 3: {1, 2}, 4: {2}}
	for ord, refs := range want {
		got, err := g.ReferencedBy(ord)
		require.NoError(t, err)
		assert.Equal(t, refs, got, "page %d", ord)
	}
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name  string
		pages func(t *testing.T) []*story.Page
		check func(t *testing.T, err error)
	}{
		{
			name: "dangling target above range",
			pages: func(t *testing.T) []*story.Page {
				return []*story.Page{choice(t, 2, 5), lose(t), win(t)}
			},
			check: func(t *testing.T, err error) {
				var e *story.DanglingReferenceError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, 1, e.Page)
				assert.Equal(t, 5, e.Target)
				assert.Equal(t, 3, e.PageCount)
			},
		},
		{
			name: "dangling target zero",
			pages: func(t *testing.T) []*story.Page {
				return []*story.Page{choice(t, 2, 3), choice(t, 0), win(t)}
			},
			check: func(t *testing.T, err error) {
				var e *story.DanglingReferenceError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, 2, e.Page)
				assert.Equal(t, 0, e.Target)
			},
		},
		{
			name: "no win page",
			pages: func(t *testing.T) []*story.Page {
				return []*story.Page{choice(t, 2), lose(t)}
			},
			check: func(t *testing.T, err error) {
				var e *story.MissingOutcomeError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, []story.Kind{story.KindWin}, e.Missing)
			},
		},
		{
			name: "no lose page",
			pages: func(t *testing.T) []*story.Page {
				return []*story.Page{choice(t, 2), win(t)}
			},
			check: func(t *testing.T, err error) {
				var e *story.MissingOutcomeError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, []story.Kind{story.KindLose}, e.Missing)
			},
		},
		{
			name: "no outcome at all",
			pages: func(t *testing.T) []*story.Page {
				return []*story.Page{choice(t, 1)}
			},
			check: func(t *testing.T, err error) {
				var e *story.MissingOutcomeError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, []story.Kind{story.KindWin, story.KindLose}, e.Missing)
			},
		},
		{
			name: "orphan page 2",
			pages: func(t *testing.T) []*story.Page {
				return []*story.Page{choice(t, 3, 4), lose(t), win(t), lose(t)}
			},
			check: func(t *testing.T, err error) {
				var e *story.OrphanPageError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, 2, e.Page)
			},
		},
		{
			name: "first orphan in ascending order",
			pages: func(t *testing.T) []*story.Page {
				return []*story.Page{choice(t, 4, 5), win(t), lose(t), win(t), lose(t)}
			},
			check: func(t *testing.T, err error) {
				var e *story.OrphanPageError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, 2, e.Page)
			},
		},
		{
			name: "self reference does not count",
			pages: func(t *testing.T) []*story.Page {
				return []*story.Page{choice(t, 3, 4), choice(t, 2), win(t), lose(t)}
			},
			check: func(t *testing.T, err error) {
				var e *story.OrphanPageError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, 2, e.Page)
			},
		},
		{
			name: "empty story",
			pages: func(t *testing.T) []*story.Page {
				return nil
			},
			check: func(t *testing.T, err error) {
				var e *story.MissingStartPageError
				require.ErrorAs(t, err, &e)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := story.Build(tc.pages(t))
			require.Error(t, err)
			assert.Nil(t, g)
			tc.check(t, err)
		})
	}
}

func TestBuild_StartPageMayBeUnreferenced(t *testing.T) {
	g := build(t, choice(t, 2), choice(t, 3, 4), win(t), lose(t))
	refs, err := g.ReferencedBy(1)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	pages := []*story.Page{choice(t, 2, 3), lose(t), win(t)}
	g := build(t, pages...)
	pages[0] = lose(t)

	p, err := g.Page(1)
	require.NoError(t, err)
	assert.Equal(t, story.KindChoice, p.Kind())
}

func TestPage_OutOfRange(t *testing.T) {
	g := build(t, choice(t, 2, 3), lose(t), win(t))

	for _, ord := range []int{0, -1, 4, 100} {
		_, err := g.Page(ord)
		var e *story.OutOfRangeError
		require.ErrorAs(t, err, &e, "ordinal %d", ord)
		assert.Equal(t, ord, e.Page)
		assert.Equal(t, 3, e.PageCount)

		_, err = g.ReferencedBy(ord)
		require.ErrorAs(t, err, &e)
	}
}

func TestErrorKind(t *testing.T) {
	cases := map[string]error{
		"dangling_reference": &story.DanglingReferenceError{},
		"missing_outcome":    &story.MissingOutcomeError{},
		"orphan_page":        &story.OrphanPageError{},
		"mixed_page_type":    &story.MixedPageTypeError{},
		"out_of_range":       &story.OutOfRangeError{},
		"unwinnable":         &story.UnwinnableStoryError{},
		"missing_start_page": &story.MissingStartPageError{},
		"unclassified_page":  story.ErrUnclassified,
		"other":              errors.New("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, story.ErrorKind(err))
	}
}
