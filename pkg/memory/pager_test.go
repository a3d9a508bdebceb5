package memory

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/c-bata/db-tutorial/pkg/storage/page"
)

func newTestPager(t *testing.T) (*Pager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	p, err := NewPager(path)
	if err != nil {
		t.Fatalf("Failed to create pager: %v", err)
	}
	return p, path
}

func TestGetPageFreshIsZeroFilled(t *testing.T) {
	p, _ := newTestPager(t)
	defer p.Close()

	pg, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	for i, b := range pg {
		if b != 0 {
			t.Fatalf("byte %d of fresh page is %#x, want 0", i, b)
		}
	}

	// A page fabricated in memory must not grow the file.
	n, err := p.NumPages()
	if err != nil {
		t.Fatalf("NumPages failed: %v", err)
	}
	if n != 0 {
		t.Errorf("file has %d pages before any flush, want 0", n)
	}
}

func TestGetPageReturnsSameInstance(t *testing.T) {
	p, _ := newTestPager(t)
	defer p.Close()

	first, err := p.GetPage(3)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	second, err := p.GetPage(3)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if first != second {
		t.Fatal("two requests for one page returned different instances")
	}

	first[17] = 0xCD
	if second[17] != 0xCD {
		t.Error("write through one reference not visible through the other")
	}

	if got := p.CachedPages(); got != 1 {
		t.Errorf("cached pages = %d, want 1", got)
	}
}

func TestGetPageOutOfBounds(t *testing.T) {
	p, _ := newTestPager(t)
	defer p.Close()

	if _, err := p.GetPage(MaxPages); err == nil {
		t.Error("expected error at the page limit")
	}
	if _, err := p.GetPage(MaxPages + 7); err == nil {
		t.Error("expected error past the page limit")
	}
	if _, err := p.GetPage(MaxPages - 1); err != nil {
		t.Errorf("last allowed page should be reachable, got %v", err)
	}
}

func TestFlushUncachedPage(t *testing.T) {
	p, _ := newTestPager(t)
	defer p.Close()

	if err := p.Flush(0); err == nil {
		t.Error("expected error flushing a page that was never loaded")
	}
}

func TestFlushWritesPageToDisk(t *testing.T) {
	p, path := newTestPager(t)
	defer p.Close()

	pg, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	copy(pg[:], []byte("hello pager"))

	if err := p.Flush(0); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read database file: %v", err)
	}
	if len(raw) != page.PageSize {
		t.Fatalf("file is %d bytes after one flush, want %d", len(raw), page.PageSize)
	}
	if !bytes.HasPrefix(raw, []byte("hello pager")) {
		t.Error("flushed bytes not found in file")
	}
}

func TestCloseFlushesAllCachedPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "close.db")

	p, err := NewPager(path)
	if err != nil {
		t.Fatalf("Failed to create pager: %v", err)
	}
	for _, pageNo := range []page.PageNumber{2, 0, 1} {
		pg, err := p.GetPage(pageNo)
		if err != nil {
			t.Fatalf("GetPage failed: %v", err)
		}
		pg[0] = byte('A' + pageNo)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewPager(path)
	if err != nil {
		t.Fatalf("Failed to reopen pager: %v", err)
	}
	defer reopened.Close()

	n, err := reopened.NumPages()
	if err != nil {
		t.Fatalf("NumPages failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("reopened file has %d pages, want 3", n)
	}
	for pageNo := page.PageNumber(0); pageNo < 3; pageNo++ {
		pg, err := reopened.GetPage(pageNo)
		if err != nil {
			t.Fatalf("GetPage failed: %v", err)
		}
		if pg[0] != byte('A'+pageNo) {
			t.Errorf("page %d first byte = %#x, want %#x", pageNo, pg[0], byte('A'+pageNo))
		}
	}
}

func TestShortTrailingPageIsZeroExtended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.db")
	seed := bytes.Repeat([]byte{0x5A}, 150)
	if err := os.WriteFile(path, seed, 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	p, err := NewPager(path)
	if err != nil {
		t.Fatalf("Failed to create pager: %v", err)
	}
	defer p.Close()

	pg, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage on short page failed: %v", err)
	}
	if !bytes.Equal(pg[:150], seed) {
		t.Error("short page prefix lost")
	}
	for i := 150; i < page.PageSize; i++ {
		if pg[i] != 0 {
			t.Fatalf("byte %d past short page is %#x, want 0", i, pg[i])
		}
	}
}

func TestPagerClosed(t *testing.T) {
	p, _ := newTestPager(t)

	if _, err := p.GetPage(0); err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := p.GetPage(0); err == nil {
		t.Error("expected error from GetPage after Close")
	}
	if err := p.Flush(0); err == nil {
		t.Error("expected error from Flush after Close")
	}
	if _, err := p.NumPages(); err == nil {
		t.Error("expected error from NumPages after Close")
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}
