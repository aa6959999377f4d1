package transaction

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sushant-115/modsort/core/catalog"
)

// compareKey orders two keyed operations of the same table: row keys through
// the table's key order, record numbers numerically. Table ids are unique, so
// a storage kind mismatch means two tables were registered under one id.
func compareKey(a, b *Operation) int {
	if a.table.Kind() != b.table.Kind() {
		panic(fmt.Sprintf("transaction: tables %s and %s share an id", a.table, b.table))
	}
	switch a.table.Kind() {
	case catalog.RowStore:
		return a.table.KeyOrder().Compare(a.key, b.key)
	case catalog.ColumnStore:
		return cmp.Compare(a.recno, b.recno)
	}
	panic(fmt.Sprintf("transaction: table %s has invalid storage kind", a.table))
}

// CompareOps is the modification order used before resolving a prepared
// transaction:
//
//   - table id ascending;
//   - within a table, operations without a key first, in no particular order;
//   - then keyed operations by key or record number.
//
// Resolution only needs keyed operations of a table to be adjacent and in key
// order. Putting the unkeyed ones first keeps the order transitive, which the
// sort needs to guarantee that.
func CompareOps(a, b *Operation) int {
	if c := cmp.Compare(a.table.ID(), b.table.ID()); c != 0 {
		return c
	}
	aKey, bKey := a.typ.HasKey(), b.typ.HasKey()
	switch {
	case !aKey && !bKey:
		return 0
	case !aKey:
		return -1
	case !bKey:
		return 1
	}
	return compareKey(a, b)
}

// SortOps sorts a modification list in place with CompareOps. The sort is not
// stable and allocates nothing. Malformed operations panic.
func SortOps(ops []Operation) {
	for i := range ops {
		ops[i].validate()
	}
	slices.SortFunc(ops, func(a, b Operation) int {
		return CompareOps(&a, &b)
	})
}

// CheckSorted reports whether ops can be resolved in a single pass. For each
// adjacent pair (a, b):
//
//   - if b has a key and a belongs to another table, a's table id must be
//     smaller than b's;
//   - if both have keys and share a table, a's key must not sort after b's;
//   - any pair involving an operation without a key is otherwise unconstrained.
//
// On failure it returns the index of a for the first offending pair.
func CheckSorted(ops []Operation) (int, bool) {
	for i := 0; i+1 < len(ops); i++ {
		a, b := &ops[i], &ops[i+1]
		a.validate()
		b.validate()

		aID, bID := a.table.ID(), b.table.ID()
		if aID != bID {
			if b.typ.HasKey() && aID > bID {
				return i, false
			}
			continue
		}
		if !a.typ.HasKey() || !b.typ.HasKey() {
			continue
		}
		if compareKey(a, b) > 0 {
			return i, false
		}
	}
	return -1, true
}
