package leaf

import (
	"encoding/binary"

	"github.com/c-bata/db-tutorial/pkg/row"
	"github.com/c-bata/db-tutorial/pkg/storage/page"
)

// NodeType tags the first byte of every node page.
type NodeType byte

const (
	NodeLeaf NodeType = iota
	NodeInternal
)

// Leaf node layout. The header is followed by an array of fixed-size
// cells, each holding a key and one serialized row:
//
//	offset 0   node type      (1 byte)
//	offset 1   is root        (1 byte)
//	offset 2   parent pointer (4 bytes)
//	offset 6   cell count     (4 bytes, little-endian)
//	offset 10  cells          (cell count * CellSize bytes)
//
// All multi-byte fields are little-endian. Cell slots past the cell
// count hold undefined bytes.
const (
	nodeTypeSize        = 1
	nodeTypeOffset      = 0
	isRootSize          = 1
	isRootOffset        = nodeTypeOffset + nodeTypeSize
	parentPointerSize   = 4
	parentPointerOffset = isRootOffset + isRootSize

	// CommonHeaderSize is the portion of the header shared by every
	// node type: the type tag, the root flag and the parent pointer.
	CommonHeaderSize = nodeTypeSize + isRootSize + parentPointerSize

	numCellsSize   = 4
	numCellsOffset = CommonHeaderSize

	// HeaderSize is the full leaf header, after which the cells begin.
	HeaderSize = CommonHeaderSize + numCellsSize

	// KeySize and ValueSize are the two halves of a cell: a uint32 key
	// followed by one serialized row.
	KeySize   = 4
	ValueSize = row.Size
	CellSize  = KeySize + ValueSize

	// SpaceForCells is the page area available to cells. A cell never
	// straddles a page boundary, so the leftover bytes past the last
	// whole cell stay unused.
	SpaceForCells = page.PageSize - HeaderSize

	// MaxCells is the number of rows one leaf page can hold.
	MaxCells = SpaceForCells / CellSize
)

// Initialize formats p as an empty leaf node: leaf type tag, not root,
// no parent, zero cells. Any cell bytes already on the page are left
// alone; the zeroed cell count makes them unreachable.
func Initialize(p *page.Page) {
	SetNodeType(p, NodeLeaf)
	SetRoot(p, false)
	SetParentPointer(p, 0)
	SetNumCells(p, 0)
}

// GetNodeType reads the node type tag of p.
func GetNodeType(p *page.Page) NodeType {
	return NodeType(p[nodeTypeOffset])
}

// SetNodeType writes the node type tag of p.
func SetNodeType(p *page.Page, t NodeType) {
	p[nodeTypeOffset] = byte(t)
}

// IsRoot reports whether p is marked as the root node.
func IsRoot(p *page.Page) bool {
	return p[isRootOffset] != 0
}

// SetRoot marks or unmarks p as the root node.
func SetRoot(p *page.Page, root bool) {
	if root {
		p[isRootOffset] = 1
	} else {
		p[isRootOffset] = 0
	}
}

// ParentPointer reads the page number of the node's parent.
func ParentPointer(p *page.Page) uint32 {
	return binary.LittleEndian.Uint32(p[parentPointerOffset:])
}

// SetParentPointer writes the page number of the node's parent.
func SetParentPointer(p *page.Page, parent uint32) {
	binary.LittleEndian.PutUint32(p[parentPointerOffset:], parent)
}

// NumCells reads the number of occupied cells in p.
func NumCells(p *page.Page) uint32 {
	return binary.LittleEndian.Uint32(p[numCellsOffset:])
}

// SetNumCells writes the number of occupied cells in p.
func SetNumCells(p *page.Page, n uint32) {
	binary.LittleEndian.PutUint32(p[numCellsOffset:], n)
}

// Cell returns the whole cell slot at index i as a slice aliasing p.
// i must be less than MaxCells.
func Cell(p *page.Page, i uint32) []byte {
	off := cellOffset(i)
	return p[off : off+CellSize]
}

// Key reads the key of the cell at index i.
func Key(p *page.Page, i uint32) uint32 {
	return binary.LittleEndian.Uint32(p[cellOffset(i):])
}

// SetKey writes the key of the cell at index i.
func SetKey(p *page.Page, i uint32, key uint32) {
	binary.LittleEndian.PutUint32(p[cellOffset(i):], key)
}

// Value returns the row bytes of the cell at index i as a slice
// aliasing p. Writing a serialized row into the returned slice stores
// it on the page; decoding from it reads the page in place.
func Value(p *page.Page, i uint32) []byte {
	off := cellOffset(i) + KeySize
	return p[off : off+ValueSize]
}

func cellOffset(i uint32) int {
	return HeaderSize + int(i)*CellSize
}

// InsertAt writes key and r into the cell at index idx, shifting the
// cells at idx and after one slot right. The row is encoded before the
// page is touched, so a row that fails validation leaves the node
// unchanged. Callers ensure idx <= NumCells and NumCells < MaxCells.
func InsertAt(p *page.Page, idx uint32, key uint32, r row.Row) error {
	var encoded [ValueSize]byte
	if err := r.Serialize(encoded[:]); err != nil {
		return err
	}

	for i := NumCells(p); i > idx; i-- {
		copy(Cell(p, i), Cell(p, i-1))
	}

	SetNumCells(p, NumCells(p)+1)
	SetKey(p, idx, key)
	copy(Value(p, idx), encoded[:])
	return nil
}
