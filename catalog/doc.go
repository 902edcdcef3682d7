// Package catalog maps point identifiers to their attribute sets.
//
// A Catalog is populated once, before search, and then read many times per
// query by filters. Reads during search go through a View obtained with
// Borrow: while any view is outstanding, Put fails fast with ErrBorrowed, so
// the "read-only during search" contract is enforced rather than assumed.
//
//	cat := catalog.New(1_000_000)
//	_ = cat.Put(1, set)             // population
//	view := cat.Borrow()            // search begins
//	defer view.Release()            // search ends
//	s, err := view.Lookup(1)        // lock-free lookup
//
// # Thread Safety
//
// Catalog is safe for concurrent use. Any number of views may be held by
// concurrent searches. View lookups take no locks: the borrow guarantees that
// nothing writes the underlying map until the last view is released.
package catalog
