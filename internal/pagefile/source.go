package pagefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

// Source yields the ordered page records of one story.
type Source interface {
	// Load returns pages 1..N in ordinal order.
	Load(ctx context.Context) ([]*story.Page, error)
	// Path is the filesystem location backing the source, used for watching.
	Path() string
}

// Open picks a Source for path: a directory of pageN.txt files or a YAML
// bundle file.
func Open(p string, workers int) (Source, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("open story %s: %w", p, err)
	}
	if info.IsDir() {
		return NewDirSource(p, workers), nil
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return NewBundleSource(p), nil
	}
	return nil, fmt.Errorf("open story %s: not a directory or YAML bundle", p)
}

// PageName returns the file name holding the page with the given ordinal.
func PageName(ordinal int) string {
	return fmt.Sprintf("page%d.txt", ordinal)
}

// OrdinalFromName extracts N from a "pageN.txt" file name.
func OrdinalFromName(name string) (int, bool) {
	base := filepath.Base(name)
	if !strings.HasPrefix(base, "page") || !strings.HasSuffix(base, ".txt") {
		return 0, false
	}
	return positiveNumber(strings.TrimSuffix(strings.TrimPrefix(base, "page"), ".txt"))
}

// ParseFile parses a single page file. The ordinal is taken from the file
// name when it has the pageN.txt form.
func ParseFile(p string) (*story.Page, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", p, err)
	}
	defer f.Close()
	ord, _ := OrdinalFromName(p)
	return Parse(f, p, ord)
}

// -----------------------------------------------------------------------
// DirSource
// -----------------------------------------------------------------------

// DirSource reads page1.txt, page2.txt, ... from a filesystem. The story
// ends at the first missing ordinal.
type DirSource struct {
	fsys    fs.FS
	root    string
	workers int
}

func NewDirSource(dir string, workers int) *DirSource {
	return NewFSSource(os.DirFS(dir), dir, workers)
}

// NewFSSource reads pages from fsys; root is used in error messages.
func NewFSSource(fsys fs.FS, root string, workers int) *DirSource {
	if workers < 1 {
		workers = 1
	}
	return &DirSource{fsys: fsys, root: root, workers: workers}
}

func (s *DirSource) Path() string { return s.root }

// Probe counts the contiguous pages starting at page 1.
func (s *DirSource) Probe() (int, error) {
	n := 0
	for {
		_, err := fs.Stat(s.fsys, PageName(n+1))
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("probe %s: %w", path.Join(s.root, PageName(n+1)), err)
		}
		n++
	}
	if n == 0 {
		return 0, &story.MissingStartPageError{Source: s.root}
	}
	return n, nil
}

type pageJob struct {
	ordinal int
	name    string
}

func (s *DirSource) Load(ctx context.Context) ([]*story.Page, error) {
	n, err := s.Probe()
	if err != nil {
		return nil, err
	}

	pool := newWorkerPool[pageJob, *story.Page](ctx, s.workers, n,
		func(ctx context.Context, j pageJob) (*story.Page, error) {
			return s.parse(j)
		})
	results := make(chan jobResult[pageJob, *story.Page], n)
	for ord := 1; ord <= n; ord++ {
		if err := pool.Submit(ctx, pageJob{ordinal: ord, name: PageName(ord)}, results); err != nil {
			pool.Drain()
			return nil, err
		}
	}
	pool.Drain()
	close(results)

	pages := make([]*story.Page, n)
	var firstErr error
	firstErrOrd := n + 1
	for r := range results {
		if r.err != nil {
			// Report the lowest failing ordinal regardless of worker timing.
			if r.payload.ordinal < firstErrOrd {
				firstErr, firstErrOrd = r.err, r.payload.ordinal
			}
			continue
		}
		pages[r.payload.ordinal-1] = r.value
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *DirSource) parse(j pageJob) (*story.Page, error) {
	f, err := s.fsys.Open(j.name)
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", path.Join(s.root, j.name), err)
	}
	defer f.Close()
	return Parse(f, path.Join(s.root, j.name), j.ordinal)
}
