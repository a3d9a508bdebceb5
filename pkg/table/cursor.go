package table

import (
	"fmt"

	"github.com/c-bata/db-tutorial/pkg/row"
	"github.com/c-bata/db-tutorial/pkg/storage/leaf"
	"github.com/c-bata/db-tutorial/pkg/storage/page"
)

// Cursor marks a cell position inside the table. A cursor either sits
// on an occupied cell or one past the last cell, in which case
// EndOfTable reports true and the cursor has no value.
type Cursor struct {
	table      *Table
	pageNum    page.PageNumber
	cellNum    uint32
	endOfTable bool
}

// Start returns a cursor on the first row. On an empty table the
// cursor starts out already at the end.
func (t *Table) Start() (*Cursor, error) {
	root, err := t.pager.GetPage(t.rootPage)
	if err != nil {
		return nil, err
	}

	return &Cursor{
		table:      t,
		pageNum:    t.rootPage,
		cellNum:    0,
		endOfTable: leaf.NumCells(root) == 0,
	}, nil
}

// End returns a cursor one past the last row, the position a new row
// is appended at.
func (t *Table) End() (*Cursor, error) {
	root, err := t.pager.GetPage(t.rootPage)
	if err != nil {
		return nil, err
	}

	return &Cursor{
		table:      t,
		pageNum:    t.rootPage,
		cellNum:    leaf.NumCells(root),
		endOfTable: true,
	}, nil
}

// EndOfTable reports whether the cursor has moved past the last row.
func (c *Cursor) EndOfTable() bool {
	return c.endOfTable
}

// Value returns the serialized row bytes under the cursor. The slice
// aliases the cached page, so it is valid for reading in place and
// becomes stale only when the row it points at is overwritten.
func (c *Cursor) Value() ([]byte, error) {
	if c.endOfTable {
		return nil, fmt.Errorf("cursor is past the last row")
	}

	pg, err := c.table.pager.GetPage(c.pageNum)
	if err != nil {
		return nil, err
	}
	return leaf.Value(pg, c.cellNum), nil
}

// Key returns the key of the cell under the cursor.
func (c *Cursor) Key() (uint32, error) {
	if c.endOfTable {
		return 0, fmt.Errorf("cursor is past the last row")
	}

	pg, err := c.table.pager.GetPage(c.pageNum)
	if err != nil {
		return 0, err
	}
	return leaf.Key(pg, c.cellNum), nil
}

// Advance moves the cursor to the next cell. Moving off the last cell
// sets EndOfTable; the cursor then stays at the end.
func (c *Cursor) Advance() error {
	pg, err := c.table.pager.GetPage(c.pageNum)
	if err != nil {
		return err
	}

	c.cellNum++
	if c.cellNum >= leaf.NumCells(pg) {
		c.endOfTable = true
	}
	return nil
}

// insert writes key and r into the cell under the cursor, shifting any
// cells at or after that position one slot right. A row that fails
// validation leaves the leaf unchanged.
func (c *Cursor) insert(key uint32, r row.Row) error {
	pg, err := c.table.pager.GetPage(c.pageNum)
	if err != nil {
		return err
	}
	if leaf.NumCells(pg) >= leaf.MaxCells {
		return ErrTableFull
	}

	return leaf.InsertAt(pg, c.cellNum, key, r)
}
