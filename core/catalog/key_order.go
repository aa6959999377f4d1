package catalog

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"
)

// KeyOrder is a table-scoped collator for row-store keys.
// Compare returns a negative number, zero or a positive number when a sorts
// before, equal to or after b. Implementations must be a strict weak ordering;
// anything else leaves the relative placement of the affected keys undefined.
type KeyOrder interface {
	Compare(a, b []byte) int
}

// Order adapts a plain comparison function to a KeyOrder.
type Order func(a, b []byte) int

// Compare calls o(a, b).
func (o Order) Compare(a, b []byte) int { return o(a, b) }

// DefaultKeyOrder compares keys byte-wise over their full length. Embedded zero
// bytes are significant and a proper prefix sorts first.
var DefaultKeyOrder KeyOrder = Order(bytes.Compare)

// ReverseKeyOrder sorts keys in descending byte order.
var ReverseKeyOrder KeyOrder = Order(func(a, b []byte) int {
	return bytes.Compare(b, a)
})

// NumericKeyOrder compares keys holding decimal integers by numeric value, so
// "4" < "51" < "540". Keys that are not numbers sort after all numeric keys,
// byte-wise among themselves. It parses both keys on every comparison and so
// allocates; DefaultKeyOrder and ReverseKeyOrder do not.
var NumericKeyOrder KeyOrder = Order(compareNumeric)

func compareNumeric(a, b []byte) int {
	x, aok := new(big.Int).SetString(string(a), 10)
	y, bok := new(big.Int).SetString(string(b), 10)
	switch {
	case aok && bok:
		if c := x.Cmp(y); c != 0 {
			return c
		}
		// "007" and "7" are the same number; fall back to bytes to keep the order strict.
		return bytes.Compare(a, b)
	case aok:
		return -1
	case bok:
		return 1
	}
	return bytes.Compare(a, b)
}

// collators maps the names accepted by CollatorByName. A nil entry selects the
// default ordering.
var collators = map[string]KeyOrder{
	"default": nil,
	"reverse": ReverseKeyOrder,
	"numeric": NumericKeyOrder,
}

// CollatorByName resolves one of the built-in collators by name.
func CollatorByName(name string) (KeyOrder, error) {
	order, ok := collators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollator, name)
	}
	return order, nil
}
