package table

import (
	"testing"
)

func TestScannerNotOpened(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	s := tbl.Scan()
	if _, err := s.HasNext(); err == nil {
		t.Error("expected error from HasNext before Open")
	}
	if _, err := s.Next(); err == nil {
		t.Error("expected error from Next before Open")
	}
}

func TestScannerExhaustion(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	if err := tbl.Insert(testRow(1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	s := tbl.Scan()
	if err := s.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	ok, err := s.HasNext()
	if err != nil {
		t.Fatalf("HasNext failed: %v", err)
	}
	if ok {
		t.Error("HasNext true after the last row")
	}
	if _, err := s.Next(); err == nil {
		t.Error("expected error from Next past the last row")
	}
}

func TestScannerRewind(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	ids := []uint32{3, 1, 2}
	for _, id := range ids {
		if err := tbl.Insert(testRow(id)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	s := tbl.Scan()
	if err := s.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	for range ids {
		if _, err := s.Next(); err != nil {
			t.Fatalf("Next failed: %v", err)
		}
	}

	if err := s.Rewind(); err != nil {
		t.Fatalf("Rewind failed: %v", err)
	}

	for i, id := range ids {
		r, err := s.Next()
		if err != nil {
			t.Fatalf("Next after Rewind failed: %v", err)
		}
		if r.ID != id {
			t.Errorf("row %d after rewind has id %d, want %d", i, r.ID, id)
		}
	}
}

func TestScannerClose(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	s := tbl.Scan()
	if err := s.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := s.HasNext(); err == nil {
		t.Error("expected error from HasNext after Close")
	}
}

func TestScannerSeesRowsInsertedMidScan(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	for _, id := range []uint32{1, 2} {
		if err := tbl.Insert(testRow(id)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	s := tbl.Scan()
	if err := s.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	// The scanner reads the live page, so a row appended before the
	// cursor reaches the end shows up in the same pass.
	if err := tbl.Insert(testRow(3)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	var tail []uint32
	for {
		ok, err := s.HasNext()
		if err != nil {
			t.Fatalf("HasNext failed: %v", err)
		}
		if !ok {
			break
		}
		r, err := s.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		tail = append(tail, r.ID)
	}

	if len(tail) != 2 || tail[0] != 2 || tail[1] != 3 {
		t.Errorf("remaining ids = %v, want [2 3]", tail)
	}
}
