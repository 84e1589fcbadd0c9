// Package session runs an interactive read of a story over line-oriented
// input and output.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gyaneshwarpardhi/cyoa/internal/metrics"
	"github.com/gyaneshwarpardhi/cyoa/internal/render"
	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

// InvalidChoiceMessage is printed when a line does not select a choice.
const InvalidChoiceMessage = "That is not a valid choice, please try again"

var (
	// ErrInvalidChoice is returned by Choose for input that does not name a
	// choice on the current page.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrFinished is returned by Choose once a WIN or LOSE page was reached.
	ErrFinished = errors.New("story finished")
	// ErrInputClosed is returned by Run when input ends before the story does.
	ErrInputClosed = errors.New("input closed before the story ended")
)

// Session tracks the current page of one reader. It never modifies the graph.
type Session struct {
	g       *story.Graph
	current *story.Page
	visited []int
}

// New starts a session on the start page.
func New(g *story.Graph) *Session {
	p, _ := g.Page(story.StartPage)
	return &Session{g: g, current: p, visited: []int{story.StartPage}}
}

// Current returns the page being read.
func (s *Session) Current() *story.Page { return s.current }

// Visited returns the ordinals read so far, in order.
func (s *Session) Visited() []int {
	out := make([]int, len(s.visited))
	copy(out, s.visited)
	return out
}

// Finished reports whether a WIN or LOSE page was reached.
func (s *Session) Finished() bool { return s.current.Kind().Terminal() }

// Choose moves along the choice named by input, a 1-based choice number.
func (s *Session) Choose(input string) (*story.Page, error) {
	if s.Finished() {
		return nil, ErrFinished
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > s.current.ChoiceCount() || !digitsOnly(input) {
		metrics.ReaderChoices.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, input)
	}
	next, err := s.g.Page(s.current.Choices()[n-1])
	if err != nil {
		return nil, err
	}
	metrics.ReaderChoices.WithLabelValues("valid").Inc()
	s.current = next
	s.visited = append(s.visited, next.Ordinal())
	return next, nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// Run prints the current page and reads choices line by line until a WIN
// or LOSE page has been printed.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	var text render.Text
	if err := text.Page(out, s.current); err != nil {
		return err
	}
	sc := bufio.NewScanner(in)
	for !s.Finished() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read choice: %w", err)
			}
			return ErrInputClosed
		}
		next, err := s.Choose(sc.Text())
		if errors.Is(err, ErrInvalidChoice) {
			if _, err := fmt.Fprintln(out, InvalidChoiceMessage); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := text.Page(out, next); err != nil {
			return err
		}
	}
	return nil
}
