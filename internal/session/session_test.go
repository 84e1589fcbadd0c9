package session_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/cyoa/internal/session"
	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

// 1 -> [2, 3], 2 -> [1, 4], 3 WIN, 4 LOSE
func testGraph(t *testing.T) *story.Graph {
	t.Helper()
	mk := func(kind story.Kind, targets ...int) *story.Page {
		var cs []story.Choice
		for _, tg := range targets {
			cs = append(cs, story.Choice{Text: "to " + string(rune('0'+tg)), Target: tg})
		}
		p, err := story.NewPage(kind, cs, []string{"page"})
		require.NoError(t, err)
		return p
	}
	g, err := story.Build([]*story.Page{
		mk(story.KindChoice, 2, 3),
		mk(story.KindChoice, 1, 4),
		mk(story.KindWin),
		mk(story.KindLose),
	})
	require.NoError(t, err)
	return g
}

func TestChoose(t *testing.T) {
	cases := []struct {
		name    string
		inputs  []string
		invalid int
		want    int
	}{
		{name: "straight to win", inputs: []string{"2"}, want: 3},
		{name: "loop back", inputs: []string{"1", "1", "2"}, want: 3},
		{name: "lose", inputs: []string{"1", "2"}, want: 4},
		{name: "rejects junk", inputs: []string{"0", "3", "-1", "+1", "one", "", "2"}, invalid: 6, want: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := session.New(testGraph(t))
			invalid := 0
			for _, in := range tc.inputs {
				if _, err := s.Choose(in); err != nil {
					require.ErrorIs(t, err, session.ErrInvalidChoice)
					invalid++
				}
			}
			assert.Equal(t, tc.invalid, invalid)
			assert.Equal(t, tc.want, s.Current().Ordinal())
			assert.True(t, s.Finished())

			_, err := s.Choose("1")
			assert.ErrorIs(t, err, session.ErrFinished)
		})
	}
}

func TestVisited(t *testing.T) {
	s := session.New(testGraph(t))
	for _, in := range []string{"1", "1", "2"} {
		_, err := s.Choose(in)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 1, 3}, s.Visited())
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	s := session.New(testGraph(t))
	err := s.Run(context.Background(), strings.NewReader("9\n2\nignored\n"), &out)
	require.NoError(t, err)

	want := "page\n\nWhat would you like to do?\n\n 1. to 2\n 2. to 3\n" +
		session.InvalidChoiceMessage + "\n" +
		"page\n\nCongratulations! You have won. Hooray!\n"
	assert.Equal(t, want, out.String())
}

func TestRun_InputClosed(t *testing.T) {
	var out bytes.Buffer
	s := session.New(testGraph(t))
	err := s.Run(context.Background(), strings.NewReader("1\n"), &out)
	require.ErrorIs(t, err, session.ErrInputClosed)
	assert.Equal(t, 2, s.Current().Ordinal())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := session.New(testGraph(t))
	err := s.Run(ctx, strings.NewReader("2\n"), &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
}
