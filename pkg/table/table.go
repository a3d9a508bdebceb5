// Package table exposes the single on-disk table: opening it, inserting
// rows, scanning them back and reporting on its layout.
package table

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/c-bata/db-tutorial/pkg/logging"
	"github.com/c-bata/db-tutorial/pkg/memory"
	"github.com/c-bata/db-tutorial/pkg/row"
	"github.com/c-bata/db-tutorial/pkg/storage/leaf"
	"github.com/c-bata/db-tutorial/pkg/storage/page"
)

// ErrTableFull is returned by Insert once the root leaf has no free
// cell slot left. The table contents are unchanged when it is returned.
var ErrTableFull = errors.New("table full")

// Table is one database file holding one table of rows. All rows live
// in the root leaf node on page zero; the row's id doubles as its key.
type Table struct {
	pager    *memory.Pager
	rootPage page.PageNumber
	log      *slog.Logger
}

// NewTable opens the database file at path through a fresh pager. A
// file with no pages yet gets its page zero formatted as an empty leaf,
// which is what an empty table looks like on disk.
func NewTable(path string) (*Table, error) {
	pager, err := memory.NewPager(path)
	if err != nil {
		return nil, err
	}

	t := &Table{
		pager:    pager,
		rootPage: 0,
		log:      logging.WithFile(path),
	}

	onDisk, err := pager.NumPages()
	if err != nil {
		return nil, err
	}
	if onDisk == 0 {
		root, err := pager.GetPage(t.rootPage)
		if err != nil {
			return nil, err
		}
		leaf.Initialize(root)
	}

	t.log.Debug("table opened", "pages_on_disk", onDisk)
	return t, nil
}

// Insert appends r at the end of the table with r.ID as its key. Rows
// are stored in arrival order; no ordering or uniqueness is enforced.
// When the root leaf is full, Insert returns ErrTableFull and leaves
// the table exactly as it was.
func (t *Table) Insert(r row.Row) error {
	root, err := t.pager.GetPage(t.rootPage)
	if err != nil {
		return err
	}
	if leaf.NumCells(root) >= leaf.MaxCells {
		return ErrTableFull
	}

	cur, err := t.End()
	if err != nil {
		return err
	}
	if err := cur.insert(r.ID, r); err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}

// Path returns the path of the backing database file.
func (t *Table) Path() string {
	return t.pager.Path()
}

// Close flushes every cached page through the pager and closes the
// database file. The table must not be used afterwards.
func (t *Table) Close() error {
	if err := t.pager.Close(); err != nil {
		return err
	}
	t.log.Debug("table closed")
	return nil
}

// Constants describes the fixed sizes that make up the on-disk format.
// The field names follow the storage layout they measure.
type Constants struct {
	RowSize               int
	CommonNodeHeaderSize  int
	LeafNodeHeaderSize    int
	LeafNodeCellSize      int
	LeafNodeSpaceForCells int
	LeafNodeMaxCells      int
}

// Constants reports the layout constants of the storage format.
func (t *Table) Constants() Constants {
	return Constants{
		RowSize:               row.Size,
		CommonNodeHeaderSize:  leaf.CommonHeaderSize,
		LeafNodeHeaderSize:    leaf.HeaderSize,
		LeafNodeCellSize:      leaf.CellSize,
		LeafNodeSpaceForCells: leaf.SpaceForCells,
		LeafNodeMaxCells:      leaf.MaxCells,
	}
}

// LeafSummary is a point-in-time view of the root leaf: how many cells
// it holds and their keys in cell order.
type LeafSummary struct {
	NumCells uint32
	Keys     []uint32
}

// LeafSummary reads the root leaf and reports its occupancy. The keys
// come back in cell order, which for this table is insertion order.
func (t *Table) LeafSummary() (LeafSummary, error) {
	root, err := t.pager.GetPage(t.rootPage)
	if err != nil {
		return LeafSummary{}, err
	}

	n := leaf.NumCells(root)
	keys := make([]uint32, 0, n)
	for i := uint32(0); i < n; i++ {
		keys = append(keys, leaf.Key(root, i))
	}

	return LeafSummary{NumCells: n, Keys: keys}, nil
}
