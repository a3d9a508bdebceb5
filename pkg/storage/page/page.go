package page

// PageSize is the fixed size in bytes of every page. Pages are read and
// written as whole units at offsets that are multiples of PageSize.
const PageSize = 4096

// PageNumber identifies a page by its zero-based position in the file.
type PageNumber uint32

// Page is one fixed-size block of the database file held in memory.
// Callers share pages by pointer, so a mutation made through one
// reference is visible through every other reference to the same page.
type Page [PageSize]byte
