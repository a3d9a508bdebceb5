package page

import (
	"fmt"
	"os"
)

// File wraps the OS file that backs a database and exposes page-granular
// I/O on top of it. It owns the file handle, performs reads and writes
// at page-aligned offsets, and derives the page count from the file size.
//
// File performs no caching. Callers that need to reuse page contents
// across operations layer a cache on top of it.
type File struct {
	file *os.File
	path string
}

// OpenFile opens the database file at path, creating it if it does not
// exist. The file is opened read-write so the same handle serves both
// page loads and the flush on close.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	return &File{
		file: file,
		path: path,
	}, nil
}

// NumPages returns the number of pages the file currently holds on disk.
//
// The count is derived from the file size. A trailing partial page,
// left behind by a writer using a smaller page size, rounds up so the
// bytes it holds remain addressable.
func (f *File) NumPages() (PageNumber, error) {
	if f.file == nil {
		return 0, fmt.Errorf("file is closed")
	}

	fileInfo, err := f.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}

	numPages := PageNumber(fileInfo.Size() / int64(PageSize))
	if fileInfo.Size()%int64(PageSize) != 0 {
		numPages++
	}

	return numPages, nil
}

// ReadPageData reads the page at pageNo from disk.
//
// The returned slice is always PageSize bytes long. When the page on
// disk is shorter than PageSize, the bytes that exist are filled in,
// the remainder stays zero, and the error is io.EOF; callers that
// tolerate a short trailing page check for it with errors.Is.
func (f *File) ReadPageData(pageNo PageNumber) ([]byte, error) {
	if f.file == nil {
		return nil, fmt.Errorf("file is closed")
	}

	offset := int64(pageNo) * int64(PageSize)
	pageData := make([]byte, PageSize)

	_, err := f.file.ReadAt(pageData, offset)
	return pageData, err
}

// WritePageData writes one full page to disk at the offset implied by
// pageNo and syncs the file. pageData must be exactly PageSize bytes;
// partial page writes are not allowed, so a database file only ever
// grows in whole-page steps.
func (f *File) WritePageData(pageNo PageNumber, pageData []byte) error {
	if f.file == nil {
		return fmt.Errorf("file is closed")
	}

	if len(pageData) != PageSize {
		return fmt.Errorf("invalid page data size: expected %d, got %d", PageSize, len(pageData))
	}

	offset := int64(pageNo) * int64(PageSize)

	if _, err := f.file.WriteAt(pageData, offset); err != nil {
		return fmt.Errorf("failed to write page data: %w", err)
	}

	if err := f.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}

	return nil
}

// Close closes the underlying file handle. Closing an already closed
// File is a no-op.
func (f *File) Close() error {
	if f.file != nil {
		err := f.file.Close()
		f.file = nil
		return err
	}

	return nil
}

// Path returns the file path this File was opened with.
func (f *File) Path() string {
	return f.path
}
