package render_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/cyoa/internal/render"
	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

func testGraph(t *testing.T) *story.Graph {
	t.Helper()
	start, err := story.NewPage(story.KindChoice,
		[]story.Choice{{Text: "Take the *stairs*", Target: 2}, {Text: "Open the chest", Target: 3}},
		[]string{"You wake in a **tower**.", "A chest sits nearby."})
	require.NoError(t, err)
	loss, err := story.NewPage(story.KindLose, nil, []string{"You fall."})
	require.NoError(t, err)
	treasure, err := story.NewPage(story.KindWin, nil, []string{"Gold!"})
	require.NoError(t, err)
	// Pages 4 and 5 point at each other and are unreachable.
	loop, err := story.NewPage(story.KindChoice, []story.Choice{{Text: "on", Target: 5}, {Text: "lose", Target: 2}}, nil)
	require.NoError(t, err)
	dead, err := story.NewPage(story.KindChoice, []story.Choice{{Text: "back", Target: 4}}, nil)
	require.NoError(t, err)
	g, err := story.Build([]*story.Page{start, loss, treasure, loop, dead})
	require.NoError(t, err)
	return g
}

func TestText_Depths(t *testing.T) {
	g := testGraph(t)
	var buf bytes.Buffer
	require.NoError(t, render.Text{}.Depths(&buf, g, story.ComputeDepths(g)))
	assert.Equal(t, "Page 1:0\nPage 2:1\nPage 3:1\nPage 4 is not reachable\nPage 5 is not reachable\n", buf.String())
}

func TestText_Routes(t *testing.T) {
	g := testGraph(t)
	routes, err := story.EnumerateWinRoutes(g)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, render.Text{}.Routes(&buf, routes))
	assert.Equal(t, "1(2),3(win)\n", buf.String())
}

func TestText_Page(t *testing.T) {
	g := testGraph(t)
	cases := []struct {
		ordinal int
		want    string
	}{
		{1, "You wake in a **tower**.\nA chest sits nearby.\n\nWhat would you like to do?\n\n 1. Take the *stairs*\n 2. Open the chest\n"},
		{2, "You fall.\n\nSorry, you have lost. Better luck next time!\n"},
		{3, "Gold!\n\nCongratulations! You have won. Hooray!\n"},
	}
	for _, tc := range cases {
		p, err := g.Page(tc.ordinal)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, render.Text{}.Page(&buf, p))
		assert.Equal(t, tc.want, buf.String())
	}
}

func TestJSON_Depths(t *testing.T) {
	g := testGraph(t)
	var buf bytes.Buffer
	require.NoError(t, render.JSON{}.Depths(&buf, g, story.ComputeDepths(g)))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 5)
	assert.Equal(t, float64(1), got[1]["depth"])
	assert.Equal(t, true, got[1]["reachable"])
	assert.NotContains(t, got[3], "depth")
	assert.Equal(t, false, got[3]["reachable"])
}

func TestYAML_Routes(t *testing.T) {
	routes := []story.Route{{{Page: 1, Choice: 2}, {Page: 3}}}
	var buf bytes.Buffer
	require.NoError(t, render.YAML{}.Routes(&buf, routes))

	var doc render.RoutesDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 1, doc.Count)
	assert.Equal(t, routes, doc.Routes)
}

func TestJSON_Page(t *testing.T) {
	g := testGraph(t)
	p, err := g.Page(1)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, render.JSON{}.Page(&buf, p))

	var doc render.PageDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 1, doc.Ordinal)
	assert.Equal(t, story.KindChoice, doc.Kind)
	assert.Equal(t, render.ChoiceDocument{Index: 2, Text: "Open the chest", Target: 3}, doc.Choices[1])
}

func TestNarrativeHTML(t *testing.T) {
	g := testGraph(t)
	p, err := g.Page(1)
	require.NoError(t, err)
	html, err := render.NarrativeHTML(p)
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>tower</strong>")
	assert.Contains(t, html, "<p>")
}

func TestRegistry(t *testing.T) {
	r := render.Default()
	assert.Equal(t, []string{"json", "text", "yaml"}, r.Names())

	f, err := r.Get("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", f.Name())

	_, err = r.Get("xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)

	assert.Panics(t, func() { r.Register(render.Text{}) })
}
