// Package storage is the root of the disk-based storage engine.
//
// Data is organised into fixed-size 4 KB pages that are read and written as
// whole units. Higher-level sub-packages build on this foundation to provide
// the node layout the table lives in.
//
// # Sub-packages
//
//   - [github.com/c-bata/db-tutorial/pkg/storage/page] – The 4 KB page type,
//     page numbering, and page-granular file I/O.
//   - [github.com/c-bata/db-tutorial/pkg/storage/leaf] – Leaf node layout:
//     a small header followed by fixed-size cells, each holding a key and
//     one serialized row.
//
// # Page layout
//
// Every page is a leaf node. The node header records the node type, a
// root flag, a parent pointer and the cell count; cells are packed
// contiguously after it in insertion order. Rows are fixed-width, so a
// cell is addressed by offset arithmetic alone and a page holds a fixed
// number of cells. Pages move between memory and disk only as whole
// units; the cached page is the authority on its contents until it is
// flushed.
package storage
