// Package filter defines the admissibility test applied to search candidates.
//
// A Filter answers one question per candidate: may this point occupy a result
// slot? The graph traversal calls Admits once per distinct candidate, before
// the candidate enters the result heap, and keeps exploring through rejected
// candidates.
//
// # Superset Filter
//
// Superset binds a query attribute set and a catalog.Reader. A point is
// admitted iff its attribute set contains every attribute of the query:
//
//	view := cat.Borrow()
//	defer view.Release()
//	f, _ := filter.NewSuperset(query, view)
//	ok, err := f.Admits(id)
//
// Admits is a pure function of (id, catalog content, query): it mutates
// neither the catalog nor the query, keeps no state between calls, and may be
// called any number of times in any order. A point missing from the catalog
// is an error (*catalog.LookupError), never a silent reject.
//
// # Thread Safety
//
// Superset is safe for concurrent use as long as the catalog is not mutated,
// which a borrowed catalog.View guarantees.
package filter
