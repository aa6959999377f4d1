package transaction

import (
	"fmt"

	"github.com/sushant-115/modsort/core/catalog"
)

// OpType is the kind of modification a transaction recorded.
type OpType uint8

const (
	OpNone        OpType = iota // Placeholder, carries nothing
	OpRefDelete                 // Fast-truncate of a whole subtree reference
	OpTruncateCol               // Range truncate on a column store
	OpTruncateRow               // Range truncate on a row store
	OpBasicCol                  // Update of one record number
	OpBasicRow                  // Update of one row key
	OpInMemCol                  // In-memory-only update of one record number
	OpInMemRow                  // In-memory-only update of one row key
)

// RecnoOOB is the out-of-band record number. Column stores number records from 1.
const RecnoOOB uint64 = 0

// HasKey reports whether operations of this type target a single key or
// record number. Every OpType must be listed; a new type that is missing here
// panics the first time it is classified.
func (t OpType) HasKey() bool {
	switch t {
	case OpNone, OpRefDelete, OpTruncateCol, OpTruncateRow:
		return false
	case OpBasicCol, OpBasicRow, OpInMemCol, OpInMemRow:
		return true
	}
	panic(fmt.Sprintf("transaction: unclassified operation type %d", uint8(t)))
}

// storage returns the storage kind a keyed type addresses.
func (t OpType) storage() catalog.StorageKind {
	switch t {
	case OpBasicCol, OpInMemCol:
		return catalog.ColumnStore
	case OpBasicRow, OpInMemRow:
		return catalog.RowStore
	}
	panic(fmt.Sprintf("transaction: operation type %s has no key", t))
}

func (t OpType) String() string {
	switch t {
	case OpNone:
		return "none"
	case OpRefDelete:
		return "ref_delete"
	case OpTruncateCol:
		return "truncate_col"
	case OpTruncateRow:
		return "truncate_row"
	case OpBasicCol:
		return "basic_col"
	case OpBasicRow:
		return "basic_row"
	case OpInMemCol:
		return "inmem_col"
	case OpInMemRow:
		return "inmem_row"
	}
	return fmt.Sprintf("OpType(%d)", uint8(t))
}

// ParseOpType is the inverse of OpType.String.
func ParseOpType(s string) (OpType, error) {
	for t := OpNone; t <= OpInMemRow; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOpType, s)
}

// Operation is one entry of a transaction's modification list. It is either
// structural (no position) or keyed, holding a row key or a record number that
// matches its table's storage kind. The constructors are the only way to build
// a usable Operation and they enforce that shape.
type Operation struct {
	table *catalog.Table
	typ   OpType
	key   []byte // keyed row-store ops only
	recno uint64 // keyed column-store ops only
}

// NewStructuralOp records an operation without a position.
func NewStructuralOp(table *catalog.Table, typ OpType) Operation {
	mustTable(table)
	if typ.HasKey() {
		panic(fmt.Sprintf("transaction: %s is keyed, use NewRowOp or NewColOp", typ))
	}
	return Operation{table: table, typ: typ}
}

// NewRowOp records a keyed operation on a row-store table. The key is not
// copied; it must stay unchanged until the transaction is resolved.
func NewRowOp(table *catalog.Table, typ OpType, key []byte) Operation {
	mustTable(table)
	if !typ.HasKey() || typ.storage() != catalog.RowStore {
		panic(fmt.Sprintf("transaction: %s is not a row-store keyed type", typ))
	}
	if table.Kind() != catalog.RowStore {
		panic(fmt.Sprintf("transaction: %s on %s table %s", typ, table.Kind(), table))
	}
	if key == nil {
		panic(fmt.Sprintf("transaction: %s on %s without a key", typ, table))
	}
	return Operation{table: table, typ: typ, key: key}
}

// NewColOp records a keyed operation on a column-store table.
func NewColOp(table *catalog.Table, typ OpType, recno uint64) Operation {
	mustTable(table)
	if !typ.HasKey() || typ.storage() != catalog.ColumnStore {
		panic(fmt.Sprintf("transaction: %s is not a column-store keyed type", typ))
	}
	if table.Kind() != catalog.ColumnStore {
		panic(fmt.Sprintf("transaction: %s on %s table %s", typ, table.Kind(), table))
	}
	if recno == RecnoOOB {
		panic(fmt.Sprintf("transaction: %s on %s with out-of-band record number", typ, table))
	}
	return Operation{table: table, typ: typ, recno: recno}
}

func mustTable(table *catalog.Table) {
	if table == nil {
		panic("transaction: operation without a table")
	}
}

func (op *Operation) Table() *catalog.Table { return op.table }
func (op *Operation) Type() OpType          { return op.typ }
func (op *Operation) HasKey() bool          { return op.typ.HasKey() }

// Key returns the row key of a keyed row-store operation.
func (op *Operation) Key() []byte {
	if !op.HasKey() || op.table.Kind() != catalog.RowStore {
		panic(fmt.Sprintf("transaction: Key on %s", op))
	}
	return op.key
}

// Recno returns the record number of a keyed column-store operation.
func (op *Operation) Recno() uint64 {
	if !op.HasKey() || op.table.Kind() != catalog.ColumnStore {
		panic(fmt.Sprintf("transaction: Recno on %s", op))
	}
	return op.recno
}

// validate panics unless op has the shape the constructors produce. It guards
// against zero Operations and hand-built values reaching the sort.
func (op *Operation) validate() {
	if op.table == nil {
		panic("transaction: operation without a table")
	}
	if !op.typ.HasKey() {
		return
	}
	if op.typ.storage() != op.table.Kind() {
		panic(fmt.Sprintf("transaction: %s on %s table %s", op.typ, op.table.Kind(), op.table))
	}
	switch op.table.Kind() {
	case catalog.RowStore:
		if op.key == nil {
			panic(fmt.Sprintf("transaction: %s on %s without a key", op.typ, op.table))
		}
	case catalog.ColumnStore:
		if op.recno == RecnoOOB {
			panic(fmt.Sprintf("transaction: %s on %s with out-of-band record number", op.typ, op.table))
		}
	}
}

func (op *Operation) String() string {
	if op.table == nil {
		return fmt.Sprintf("%s(<no table>)", op.typ)
	}
	if op.typ > OpInMemRow || !op.typ.HasKey() {
		return fmt.Sprintf("%s(table=%d)", op.typ, op.table.ID())
	}
	if op.table.Kind() == catalog.RowStore {
		return fmt.Sprintf("%s(table=%d,key=%q)", op.typ, op.table.ID(), op.key)
	}
	return fmt.Sprintf("%s(table=%d,recno=%d)", op.typ, op.table.ID(), op.recno)
}
