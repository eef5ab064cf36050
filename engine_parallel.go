package decltree

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jward/decltree/internal/store"
)

// workResult holds a built unit and its buffered rows, or the error that
// stopped it.
type workResult struct {
	built *builtUnit
	batch *store.BatchedStore
	err   error
}

// indexUnitsParallel indexes units using a two-stage pipeline:
//
//	Stage A (parallel): build trees and buffer rows, bounded by an errgroup.
//	Stage B (serial):   hash check and batch commit on the calling goroutine.
//
// Workers never touch SQLite; their BatchedStores carry fake IDs that
// CommitBatch remaps once the file row exists.
func (e *Engine) indexUnitsParallel(ctx context.Context, units []Unit) error {
	var accepted []Unit
	for _, u := range units {
		if !e.accepts(u) {
			e.logger.Debug("skipping filtered unit", "path", u.Path, "language", u.Language)
			continue
		}
		accepted = append(accepted, u)
	}
	if len(accepted) == 0 {
		return nil
	}

	numWorkers := e.workers
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = max(min(numWorkers, len(accepted)), 1)

	results := make(chan workResult, numWorkers)
	var g errgroup.Group
	g.SetLimit(numWorkers)

	// ---- Stage A: dispatch ----
	go func() {
		for _, u := range accepted {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				results <- e.buildBatch(u)
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	// ---- Stage B: serial commit ----
	var errs []error
	wrote := false
	for res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		changed, err := e.write(res.built, func(fileID int64) error {
			res.batch.FileID = fileID
			return e.store.CommitBatch(res.batch)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", res.built.unit.Path, err))
			continue
		}
		wrote = wrote || changed
	}

	e.finish(wrote, errs)
	if len(errs) > 0 {
		return fmt.Errorf("parallel indexing had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

// buildBatch does Stage A work for a single unit: build, hash and buffer
// the rows into a BatchedStore whose file ID is filled in at commit.
func (e *Engine) buildBatch(u Unit) workResult {
	b, err := e.build(u)
	if err != nil {
		return workResult{err: fmt.Errorf("index %s: %w", u.Path, err)}
	}
	batch := store.NewBatchedStore(0)
	if _, err := store.InsertTree(batch, 0, b.decls); err != nil {
		return workResult{err: fmt.Errorf("index %s: %w", u.Path, err)}
	}
	return workResult{built: b, batch: batch}
}
