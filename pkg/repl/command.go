package repl

import (
	"fmt"
	"io"

	"github.com/c-bata/db-tutorial/pkg/table"
)

type metaResult int

const (
	metaSuccess metaResult = iota
	metaUnrecognized
	metaExit
)

// doMetaCommand handles the dot commands. ".exit" closes the table so
// every cached page reaches disk before the session ends.
func doMetaCommand(line string, tbl *table.Table, out io.Writer) (metaResult, error) {
	switch line {
	case ".exit":
		if err := tbl.Close(); err != nil {
			return metaExit, fmt.Errorf("failed to close database: %w", err)
		}
		return metaExit, nil

	case ".constants":
		printConstants(tbl.Constants(), out)
		return metaSuccess, nil

	case ".btree":
		sum, err := tbl.LeafSummary()
		if err != nil {
			return metaSuccess, err
		}
		printTree(sum, out)
		return metaSuccess, nil

	default:
		return metaUnrecognized, nil
	}
}

func printConstants(c table.Constants, out io.Writer) {
	fmt.Fprintln(out, "Constants:")
	fmt.Fprintf(out, "ROW_SIZE: %d\n", c.RowSize)
	fmt.Fprintf(out, "COMMON_NODE_HEADER_SIZE: %d\n", c.CommonNodeHeaderSize)
	fmt.Fprintf(out, "LEAF_NODE_HEADER_SIZE: %d\n", c.LeafNodeHeaderSize)
	fmt.Fprintf(out, "LEAF_NODE_CELL_SIZE: %d\n", c.LeafNodeCellSize)
	fmt.Fprintf(out, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", c.LeafNodeSpaceForCells)
	fmt.Fprintf(out, "LEAF_NODE_MAX_CELLS: %d\n", c.LeafNodeMaxCells)
}

func printTree(sum table.LeafSummary, out io.Writer) {
	fmt.Fprintln(out, "Tree:")
	fmt.Fprintf(out, "leaf (size %d)\n", sum.NumCells)
	for i, key := range sum.Keys {
		fmt.Fprintf(out, "  - %d : %d\n", i, key)
	}
}
