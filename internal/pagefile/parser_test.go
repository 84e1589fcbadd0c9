package pagefile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		name      string
		src       string
		kind      story.Kind
		choices   []story.Choice
		narrative []string
	}{
		{
			name: "choice page",
			src:  "2:Open the door\n3:Run away\n#\nYou see a door.\nIt creaks.\n",
			kind: story.KindChoice,
			choices: []story.Choice{
				{Text: "Open the door", Target: 2},
				{Text: "Run away", Target: 3},
			},
			narrative: []string{"You see a door.", "It creaks."},
		},
		{
			name:      "win page",
			src:       "WIN\n#\nTreasure!\n",
			kind:      story.KindWin,
			narrative: []string{"Treasure!"},
		},
		{
			name:      "lose page with crlf",
			src:       "LOSE\r\n# the end\r\nEaten by a grue.\r\n",
			kind:      story.KindLose,
			narrative: []string{"Eaten by a grue."},
		},
		{
			name:      "narrative keeps hash lines and colons",
			src:       "WIN\n#\n# not a separator\n12:not a choice\n",
			kind:      story.KindWin,
			narrative: []string{"# not a separator", "12:not a choice"},
		},
		{
			name:    "choice text may contain colons",
			src:     "4:Say: hello\n#\n",
			kind:    story.KindChoice,
			choices: []story.Choice{{Text: "Say: hello", Target: 4}},
		},
		{
			name: "no narrative section",
			src:  "LOSE\n",
			kind: story.KindLose,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(strings.NewReader(tc.src), "page1.txt", 1)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, p.Kind())
			if tc.choices == nil {
				assert.Empty(t, p.Options())
			} else {
				assert.Equal(t, tc.choices, p.Options())
			}
			if tc.narrative == nil {
				assert.Empty(t, p.Narrative())
			} else {
				assert.Equal(t, tc.narrative, p.Narrative())
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		line   int
		reason string
		mixed  bool
	}{
		{name: "empty file", src: "", reason: "empty page"},
		{name: "missing colon", src: "go left\n#\n", line: 1, reason: "choice has no colon"},
		{name: "blank navigation line", src: "2:a\n\n#\n", line: 2, reason: "choice has no colon"},
		{name: "zero page number", src: "0:nowhere\n#\n", line: 1, reason: `illegal page number "0"`},
		{name: "negative page number", src: "-3:back\n#\n", line: 1, reason: `illegal page number "-3"`},
		{name: "non numeric", src: "two:back\n#\n", line: 1, reason: `illegal page number "two"`},
		{name: "win twice", src: "WIN\nWIN\n#\n", line: 2, reason: "invalid navigation"},
		{name: "win and lose", src: "WIN\nLOSE\n#\n", line: 2, reason: "invalid navigation", mixed: true},
		{name: "choice then win", src: "2:a\nWIN\n#\n", line: 2, reason: "invalid navigation", mixed: true},
		{name: "lose then choice", src: "LOSE\n2:a\n#\n", line: 2, reason: "invalid navigation", mixed: true},
		{name: "only narrative", src: "#\nhello\n", reason: "no navigation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.src), "story/page3.txt", 3)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "story/page3.txt", pe.Path)
			assert.Equal(t, tc.line, pe.Line)
			assert.Equal(t, tc.reason, pe.Reason)

			var mixed *story.MixedPageTypeError
			assert.Equal(t, tc.mixed, errors.As(err, &mixed))
			if tc.mixed {
				assert.Equal(t, 3, mixed.Page)
			}
		})
	}
}

func TestParse_RedundantOutcome(t *testing.T) {
	_, err := Parse(strings.NewReader("LOSE\nLOSE\n"), "p", 1)
	require.ErrorIs(t, err, errRedundant)
}

func TestOrdinalFromName(t *testing.T) {
	cases := map[string]int{
		"page1.txt":       1,
		"/a/b/page42.txt": 42,
		"page0.txt":       0,
		"page.txt":        0,
		"pageX.txt":       0,
		"page3.md":        0,
		"chapter3.txt":    0,
	}
	for name, want := range cases {
		got, ok := OrdinalFromName(name)
		assert.Equal(t, want != 0, ok, name)
		assert.Equal(t, want, got, name)
	}
}
