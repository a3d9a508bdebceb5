package table

import (
	"fmt"

	"github.com/c-bata/db-tutorial/pkg/row"
)

// Scanner provides iteration over all rows in a Table, front to back
// in cell order. Rows inserted while a scan is open become visible to
// it, since the scanner reads the live pages.
type Scanner struct {
	table  *Table
	cursor *Cursor
	isOpen bool
}

// Scan creates a new scanner over the table. Call Open before use.
func (t *Table) Scan() *Scanner {
	return &Scanner{table: t}
}

// Open positions the scanner on the first row
func (s *Scanner) Open() error {
	cur, err := s.table.Start()
	if err != nil {
		return err
	}
	s.cursor = cur
	s.isOpen = true
	return nil
}

// HasNext returns true if there are more rows
func (s *Scanner) HasNext() (bool, error) {
	if !s.isOpen {
		return false, fmt.Errorf("scanner not opened")
	}
	return !s.cursor.EndOfTable(), nil
}

// Next decodes the row under the cursor and moves past it
func (s *Scanner) Next() (row.Row, error) {
	if !s.isOpen {
		return row.Row{}, fmt.Errorf("scanner not opened")
	}
	if s.cursor.EndOfTable() {
		return row.Row{}, fmt.Errorf("no more rows")
	}

	val, err := s.cursor.Value()
	if err != nil {
		return row.Row{}, err
	}
	r, err := row.Deserialize(val)
	if err != nil {
		return row.Row{}, fmt.Errorf("failed to decode row: %w", err)
	}

	if err := s.cursor.Advance(); err != nil {
		return row.Row{}, err
	}
	return r, nil
}

// Rewind resets the scanner to the first row
func (s *Scanner) Rewind() error {
	return s.Open()
}

// Close releases the scanner
func (s *Scanner) Close() error {
	s.cursor = nil
	s.isOpen = false
	return nil
}
