package store

import "fmt"

// CommitBatch inserts all buffered declarations from a BatchedStore into
// SQLite within a single transaction. Fake (negative) IDs are remapped to
// real IDs, and parent references within the batch are rewritten using the
// fakeToReal mapping. Buffer order guarantees parents precede children.
func (s *Store) CommitBatch(batch *BatchedStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	fakeToReal := make(map[int64]int64, len(batch.Declarations))
	for _, d := range batch.Declarations {
		if d.ParentID != nil && *d.ParentID < 0 {
			realID, ok := fakeToReal[*d.ParentID]
			if !ok {
				return fmt.Errorf("commit batch: declaration %d has parent_id=%d not in fakeToReal map", d.ID, *d.ParentID)
			}
			d.ParentID = &realID
		}
		if d.FileID == 0 {
			d.FileID = batch.FileID
		}
		realID, err := insertDeclaration(tx, &d)
		if err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		fakeToReal[d.ID] = realID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: commit: %w", err)
	}
	return nil
}
