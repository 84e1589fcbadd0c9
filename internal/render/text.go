package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

// Messages printed under terminal pages and for unwinnable stories.
const (
	WinMessage        = "Congratulations! You have won. Hooray!"
	LoseMessage       = "Sorry, you have lost. Better luck next time!"
	PromptMessage     = "What would you like to do?"
	UnwinnableMessage = "This story is unwinnable!"
)

// Text is the plain-text formatter used by the interactive reader and CLI.
type Text struct{}

func (Text) Name() string { return "text" }

func (Text) Depths(w io.Writer, g *story.Graph, depths story.DepthMap) error {
	bw := bufio.NewWriter(w)
	for ord := 1; ord <= g.PageCount(); ord++ {
		if d, ok := depths[ord]; ok {
			fmt.Fprintf(bw, "Page %d:%d\n", ord, d)
		} else {
			fmt.Fprintf(bw, "Page %d is not reachable\n", ord)
		}
	}
	return bw.Flush()
}

func (Text) Routes(w io.Writer, routes []story.Route) error {
	bw := bufio.NewWriter(w)
	for _, r := range routes {
		bw.WriteString(r.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Page prints the narrative, a blank line, then the prompt and numbered
// choices or the outcome message.
func (Text) Page(w io.Writer, p *story.Page) error {
	bw := bufio.NewWriter(w)
	for _, line := range p.Narrative() {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')
	switch p.Kind() {
	case story.KindChoice:
		bw.WriteString(PromptMessage + "\n\n")
		for i, c := range p.Options() {
			fmt.Fprintf(bw, " %d. %s\n", i+1, c.Text)
		}
	case story.KindWin:
		bw.WriteString(WinMessage + "\n")
	case story.KindLose:
		bw.WriteString(LoseMessage + "\n")
	}
	return bw.Flush()
}
