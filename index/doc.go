// Package index holds the resume store and its nearest-neighbour search.
//
// A Store is an append-only, in-memory list of records. Each record keeps its
// filename, extracted text and embedding together, so a record and its vector
// can never drift apart. The first appended vector fixes the dimension of the
// store; later vectors and queries must match it.
//
// Search is a flat scan using squared Euclidean distance: every query visits
// every record. Callers depend on the Searcher interface, so a tree or
// approximate index can replace the scan without changing them.
//
// All methods are safe for concurrent use. Appends take an exclusive lock,
// searches share a read lock, so a search never sees half a record.
package index
