package memory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/c-bata/db-tutorial/pkg/logging"
	"github.com/c-bata/db-tutorial/pkg/storage/page"
)

// MaxPages caps how many pages one database file may hold. The cap
// bounds both the cache and the file itself; a full cache means a full
// table, never an eviction.
const MaxPages = 100

// Pager mediates every page access between the table layer and the
// database file. Pages load from disk on first use and then stay
// cached for the life of the Pager, so repeated requests for the same
// page number always return the same in-memory page. Mutations happen
// in place on cached pages and reach disk only when the page is
// flushed, normally during Close.
type Pager struct {
	file   *page.File
	pages  map[page.PageNumber]*page.Page
	log    *slog.Logger
	closed bool
}

// NewPager opens the database file at path, creating it if missing,
// and returns a Pager with an empty cache.
func NewPager(path string) (*Pager, error) {
	file, err := page.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pager: %w", err)
	}

	return &Pager{
		file:  file,
		pages: make(map[page.PageNumber]*page.Page),
		log:   logging.WithFile(path),
	}, nil
}

// GetPage returns the cached page for pageNo, loading it from disk on
// the first request. A page number at or past the on-disk extent
// yields a zero-filled page; it joins the file once it is flushed.
//
// The returned pointer aliases the cache entry. Every caller asking
// for the same page number sees the same bytes, and writes through one
// pointer are visible to all of them.
func (p *Pager) GetPage(pageNo page.PageNumber) (*page.Page, error) {
	if p.closed {
		return nil, fmt.Errorf("pager is closed")
	}
	if pageNo >= MaxPages {
		return nil, fmt.Errorf("page number %d out of bounds: limit is %d", pageNo, MaxPages)
	}

	if pg, ok := p.pages[pageNo]; ok {
		return pg, nil
	}

	pg := &page.Page{}

	onDisk, err := p.file.NumPages()
	if err != nil {
		return nil, err
	}
	if pageNo < onDisk {
		data, err := p.file.ReadPageData(pageNo)
		// A short trailing page comes back as io.EOF with the missing
		// tail zero-filled, which is exactly the in-memory form we want.
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read page %d: %w", pageNo, err)
		}
		copy(pg[:], data)
	}

	p.pages[pageNo] = pg
	p.log.Debug("page cached", "page", pageNo, "from_disk", pageNo < onDisk)
	return pg, nil
}

// Flush writes the cached page for pageNo back to the file. Flushing a
// page that was never loaded is an error: there is nothing to write.
func (p *Pager) Flush(pageNo page.PageNumber) error {
	if p.closed {
		return fmt.Errorf("pager is closed")
	}

	pg, ok := p.pages[pageNo]
	if !ok {
		return fmt.Errorf("tried to flush page %d that is not cached", pageNo)
	}

	if err := p.file.WritePageData(pageNo, pg[:]); err != nil {
		return fmt.Errorf("failed to flush page %d: %w", pageNo, err)
	}

	p.log.Debug("page flushed", "page", pageNo)
	return nil
}

// NumPages reports how many pages the file holds on disk. Pages that
// exist only in the cache are not counted until they are flushed.
func (p *Pager) NumPages() (page.PageNumber, error) {
	if p.closed {
		return 0, fmt.Errorf("pager is closed")
	}
	return p.file.NumPages()
}

// CachedPages reports how many pages are currently resident in memory.
func (p *Pager) CachedPages() int {
	return len(p.pages)
}

// Path returns the path of the underlying database file.
func (p *Pager) Path() string {
	return p.file.Path()
}

// Close flushes every cached page in ascending page order, drops the
// cache and closes the file. A failed flush aborts the close and
// leaves the pager unusable; the database file then holds whatever
// prefix of the flushes completed. Closing an already closed Pager is
// a no-op.
func (p *Pager) Close() error {
	if p.closed {
		return nil
	}

	pageNos := make([]page.PageNumber, 0, len(p.pages))
	for pageNo := range p.pages {
		pageNos = append(pageNos, pageNo)
	}
	sort.Slice(pageNos, func(i, j int) bool { return pageNos[i] < pageNos[j] })

	for _, pageNo := range pageNos {
		if err := p.Flush(pageNo); err != nil {
			return err
		}
	}

	if err := p.file.Close(); err != nil {
		return fmt.Errorf("failed to close database file: %w", err)
	}

	p.log.Debug("pager closed", "pages_flushed", len(pageNos))
	p.pages = nil
	p.closed = true
	return nil
}
