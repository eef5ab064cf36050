package store

import "sync"

// BatchedStore collects the declaration rows of one unit in memory. Rows get
// negative placeholder IDs in insertion order (-1, -2, ...), so a child's
// ParentID can point at a row that does not exist in SQLite yet.
// CommitBatch swaps the placeholders for real IDs.
//
// A worker owns its batch while building; the mutex only guards against a
// batch shared across goroutines.
type BatchedStore struct {
	mu sync.Mutex

	// FileID is the file the rows belong to. Zero until the writer has
	// inserted the file row.
	FileID       int64
	Declarations []Declaration
}

var _ DataStore = (*BatchedStore)(nil)

// NewBatchedStore creates an empty batch for fileID.
func NewBatchedStore(fileID int64) *BatchedStore {
	return &BatchedStore{FileID: fileID}
}

// InsertDeclaration buffers d and returns its placeholder ID.
func (b *BatchedStore) InsertDeclaration(d *Declaration) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d.ID = -int64(len(b.Declarations) + 1)
	b.Declarations = append(b.Declarations, *d)
	return d.ID, nil
}

// Len returns the number of buffered declarations.
func (b *BatchedStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Declarations)
}
