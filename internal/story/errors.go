package story

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnclassified is returned when a page is finalised without ever being
// classified as CHOICE, WIN or LOSE.
var ErrUnclassified = errors.New("page has no classification")

// DanglingReferenceError reports a choice whose target is outside [1, N].
type DanglingReferenceError struct {
	Page      int
	Target    int
	PageCount int
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("page %d: choice target %d is out of range [1, %d]", e.Page, e.Target, e.PageCount)
}

// MissingOutcomeError reports a story without any WIN or any LOSE page.
type MissingOutcomeError struct {
	Missing []Kind
}

func (e *MissingOutcomeError) Error() string {
	names := make([]string, len(e.Missing))
	for i, k := range e.Missing {
		names[i] = string(k)
	}
	return fmt.Sprintf("story has no %s page (at least one WIN and one LOSE page are required)", strings.Join(names, " or "))
}

// OrphanPageError reports a non-start page that no other page points to.
type OrphanPageError struct {
	Page int
}

func (e *OrphanPageError) Error() string {
	return fmt.Sprintf("page %d is not referenced by any other page", e.Page)
}

// MixedPageTypeError reports page content implying two classifications.
// Want is KindUnknown when a CHOICE page ends up without choices.
type MixedPageTypeError struct {
	Page int
	Have Kind
	Want Kind
}

func (e *MixedPageTypeError) Error() string {
	if e.Want == KindUnknown {
		return fmt.Sprintf("page %d: classified %s but has no choices", e.Page, e.Have)
	}
	return fmt.Sprintf("page %d: mixes %s and %s content", e.Page, e.Have, e.Want)
}

// OutOfRangeError reports a page lookup outside [1, N].
type OutOfRangeError struct {
	Page      int
	PageCount int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("page %d is out of range [1, %d]", e.Page, e.PageCount)
}

// UnwinnableStoryError reports that no WIN page is reachable from Start.
type UnwinnableStoryError struct {
	Start int
}

func (e *UnwinnableStoryError) Error() string {
	return fmt.Sprintf("story is unwinnable: no WIN page is reachable from page %d", e.Start)
}

// MissingStartPageError reports a story source without page 1.
type MissingStartPageError struct {
	Source string
}

func (e *MissingStartPageError) Error() string {
	if e.Source == "" {
		return "story has no start page"
	}
	return fmt.Sprintf("%s: story has no start page", e.Source)
}

// ErrorKind returns a short stable label for a taxonomy error, or "other".
// Used for metrics labels and API error bodies.
func ErrorKind(err error) string {
	var (
		dangling *DanglingReferenceError
		outcome  *MissingOutcomeError
		orphan   *OrphanPageError
		mixed    *MixedPageTypeError
		rng      *OutOfRangeError
		unwin    *UnwinnableStoryError
		start    *MissingStartPageError
	)
	switch {
	case errors.As(err, &dangling):
		return "dangling_reference"
	case errors.As(err, &outcome):
		return "missing_outcome"
	case errors.As(err, &orphan):
		return "orphan_page"
	case errors.As(err, &mixed):
		return "mixed_page_type"
	case errors.As(err, &rng):
		return "out_of_range"
	case errors.As(err, &unwin):
		return "unwinnable"
	case errors.As(err, &start):
		return "missing_start_page"
	case errors.Is(err, ErrUnclassified):
		return "unclassified_page"
	}
	return "other"
}
