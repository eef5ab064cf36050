package store

// DataStore is the write interface used while persisting declaration trees.
// Both Store (direct SQLite) and BatchedStore (in-memory buffering for
// parallel indexing) implement it.
type DataStore interface {
	// InsertDeclaration stores d and returns its assigned ID.
	InsertDeclaration(d *Declaration) (int64, error)
}

// Compile-time check: *Store satisfies DataStore.
var _ DataStore = (*Store)(nil)
