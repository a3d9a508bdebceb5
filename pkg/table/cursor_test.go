package table

import (
	"testing"

	"github.com/c-bata/db-tutorial/pkg/row"
	"github.com/c-bata/db-tutorial/pkg/storage/leaf"
)

func TestStartOnEmptyTable(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	cur, err := tbl.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !cur.EndOfTable() {
		t.Error("start cursor on empty table should already be at the end")
	}
	if _, err := cur.Value(); err == nil {
		t.Error("expected error reading value at end of table")
	}
	if _, err := cur.Key(); err == nil {
		t.Error("expected error reading key at end of table")
	}
}

func TestStartAndEndPositions(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	for _, id := range []uint32{10, 20, 30} {
		if err := tbl.Insert(testRow(id)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	start, err := tbl.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if start.EndOfTable() {
		t.Error("start cursor on populated table should not be at the end")
	}
	if start.cellNum != 0 {
		t.Errorf("start cursor at cell %d, want 0", start.cellNum)
	}

	end, err := tbl.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if !end.EndOfTable() {
		t.Error("end cursor should report end of table")
	}
	if end.cellNum != 3 {
		t.Errorf("end cursor at cell %d, want 3", end.cellNum)
	}
}

func TestCursorWalk(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	ids := []uint32{4, 8, 15}
	for _, id := range ids {
		if err := tbl.Insert(testRow(id)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	cur, err := tbl.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i, id := range ids {
		if cur.EndOfTable() {
			t.Fatalf("cursor hit end after %d rows, want %d", i, len(ids))
		}
		key, err := cur.Key()
		if err != nil {
			t.Fatalf("Key failed: %v", err)
		}
		if key != id {
			t.Errorf("cell %d key = %d, want %d", i, key, id)
		}

		val, err := cur.Value()
		if err != nil {
			t.Fatalf("Value failed: %v", err)
		}
		got, err := row.Deserialize(val)
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if got != testRow(id) {
			t.Errorf("cell %d row = %+v, want %+v", i, got, testRow(id))
		}

		if err := cur.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}

	if !cur.EndOfTable() {
		t.Error("cursor should be at end after walking every row")
	}
}

func TestAdvancePastEndStaysAtEnd(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	if err := tbl.Insert(testRow(1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	cur, err := tbl.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := cur.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}
	if !cur.EndOfTable() {
		t.Error("cursor left the end state")
	}
}

func TestInsertInMiddleShiftsCells(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	for _, id := range []uint32{100, 300} {
		if err := tbl.Insert(testRow(id)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	// Position a cursor between the two rows and insert there.
	cur := &Cursor{table: tbl, pageNum: tbl.rootPage, cellNum: 1}
	if err := cur.insert(200, testRow(200)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	rows := collectRows(t, tbl)
	want := []uint32{100, 200, 300}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, id := range want {
		if rows[i] != testRow(id) {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], testRow(id))
		}
	}
}

func TestInsertInvalidRowLeavesLeafUnchanged(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	if err := tbl.Insert(testRow(1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	bad := row.Row{ID: 2, Username: string(make([]byte, row.MaxUsernameLen+5)), Email: "x@y"}
	if err := tbl.Insert(bad); err == nil {
		t.Fatal("expected error inserting oversized row")
	}

	sum, err := tbl.LeafSummary()
	if err != nil {
		t.Fatalf("LeafSummary failed: %v", err)
	}
	if sum.NumCells != 1 {
		t.Errorf("leaf has %d cells after failed insert, want 1", sum.NumCells)
	}
}

func TestCursorInsertRespectsCapacity(t *testing.T) {
	tbl, _ := newTestTable(t)
	defer tbl.Close()

	for i := uint32(1); i <= leaf.MaxCells; i++ {
		if err := tbl.Insert(testRow(i)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	cur := &Cursor{table: tbl, pageNum: tbl.rootPage, cellNum: 0}
	if err := cur.insert(0, testRow(0)); err != ErrTableFull {
		t.Errorf("got err %v, want ErrTableFull", err)
	}
}
