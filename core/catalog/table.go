package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// --- Error Definitions ---

var (
	ErrTableExists        = errors.New("table already exists")
	ErrTableNotFound      = errors.New("table not found")
	ErrInvalidStorageKind = errors.New("invalid storage kind")
	ErrUnknownCollator    = errors.New("unknown collator")
	ErrCollatorOnColumn   = errors.New("collator is only supported on row-store tables")
	ErrTableIDsExhausted  = errors.New("table ids exhausted")
)

// StorageKind is how a table addresses its entries.
type StorageKind uint8

const (
	RowStore    StorageKind = iota + 1 // Entries addressed by opaque byte-string keys
	ColumnStore                        // Entries addressed by record numbers
)

func (k StorageKind) String() string {
	switch k {
	case RowStore:
		return "row"
	case ColumnStore:
		return "col"
	}
	return fmt.Sprintf("StorageKind(%d)", uint8(k))
}

// ParseStorageKind accepts "row" or "col"/"column".
func ParseStorageKind(s string) (StorageKind, error) {
	switch strings.ToLower(s) {
	case "row":
		return RowStore, nil
	case "col", "column":
		return ColumnStore, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStorageKind, s)
}

// Table is the registry's record of one table. Its fields are fixed once the
// table is created, so operations may hold a *Table for as long as they live.
type Table struct {
	id       uint32
	name     string
	kind     StorageKind
	collator KeyOrder
}

// NewTable builds a table record outside of a Registry. Engine code gets tables
// from Registry.Create; this is for callers that manage ids themselves.
func NewTable(id uint32, name string, kind StorageKind, collator KeyOrder) *Table {
	if kind != RowStore && kind != ColumnStore {
		panic(fmt.Sprintf("catalog: table %q has invalid storage kind %d", name, kind))
	}
	if collator != nil && kind != RowStore {
		panic(fmt.Sprintf("catalog: column-store table %q cannot carry a collator", name))
	}
	return &Table{id: id, name: name, kind: kind, collator: collator}
}

func (t *Table) ID() uint32        { return t.id }
func (t *Table) Name() string      { return t.name }
func (t *Table) Kind() StorageKind { return t.kind }

// Collator returns the table's custom key order, or nil when keys use
// DefaultKeyOrder.
func (t *Table) Collator() KeyOrder { return t.collator }

// KeyOrder returns the order row keys of this table are compared with.
func (t *Table) KeyOrder() KeyOrder {
	if t.collator != nil {
		return t.collator
	}
	return DefaultKeyOrder
}

func (t *Table) String() string {
	return fmt.Sprintf("%s(id=%d,%s)", t.name, t.id, t.kind)
}
