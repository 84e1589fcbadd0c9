package pagefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

// ParseError reports a malformed page source. Err, when set, is the
// underlying cause (for example *story.MixedPageTypeError).
type ParseError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", loc, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", loc, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// -----------------------------------------------------------------------
// Line classification
// -----------------------------------------------------------------------

type lineKind int

const (
	lineChoice    lineKind = iota // <target>:<text>
	lineWin                       // WIN
	lineLose                      // LOSE
	lineSeparator                 // # ...
)

type navLine struct {
	kind   lineKind
	target int
	text   string
}

func classify(line string) (navLine, string) {
	switch {
	case line == "WIN":
		return navLine{kind: lineWin}, ""
	case line == "LOSE":
		return navLine{kind: lineLose}, ""
	case strings.HasPrefix(line, "#"):
		return navLine{kind: lineSeparator}, ""
	}
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return navLine{}, "choice has no colon"
	}
	target, ok := positiveNumber(line[:colon])
	if !ok {
		return navLine{}, fmt.Sprintf("illegal page number %q", line[:colon])
	}
	return navLine{kind: lineChoice, target: target, text: line[colon+1:]}, ""
}

// positiveNumber accepts only a non-empty run of ASCII digits with value >= 1.
func positiveNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// -----------------------------------------------------------------------
// Parser
// -----------------------------------------------------------------------

// Parse reads one page source. ordinal labels errors raised by the page
// draft; path labels parse errors.
func Parse(r io.Reader, path string, ordinal int) (*story.Page, error) {
	d := story.NewDraft(ordinal)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	inNarrative := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if inNarrative {
			d.AddNarrative(line)
			continue
		}

		nl, reason := classify(line)
		if reason != "" {
			return nil, &ParseError{Path: path, Line: lineNo, Reason: reason}
		}
		var err error
		switch nl.kind {
		case lineSeparator:
			inNarrative = true
		case lineWin:
			err = setOutcome(d, story.KindWin)
		case lineLose:
			err = setOutcome(d, story.KindLose)
		case lineChoice:
			err = d.AddChoice(nl.text, nl.target)
		}
		if err != nil {
			return nil, &ParseError{Path: path, Line: lineNo, Reason: "invalid navigation", Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Path: path, Line: lineNo, Reason: "read failed", Err: err}
	}
	if lineNo == 0 {
		return nil, &ParseError{Path: path, Reason: "empty page"}
	}

	p, err := d.Page()
	if errors.Is(err, story.ErrUnclassified) {
		return nil, &ParseError{Path: path, Reason: "no navigation", Err: err}
	}
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "invalid page", Err: err}
	}
	return p, nil
}

var errRedundant = errors.New("redundant navigation")

func setOutcome(d *story.Draft, k story.Kind) error {
	if d.Kind() == k {
		return fmt.Errorf("%w: %s declared twice", errRedundant, k)
	}
	return d.SetKind(k)
}
