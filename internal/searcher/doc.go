// Package searcher provides the bounded heaps used by graph traversal.
//
// Items are ordered by distance and then by PointID, so two candidates at the
// same distance always compare the same way. This keeps result sets
// deterministic when distances tie.
package searcher
