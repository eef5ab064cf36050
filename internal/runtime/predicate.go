package runtime

import (
	"context"

	"github.com/jward/decltree/internal/objc"
)

// Predicate compiles a documentability decision from Risor source. The
// source is compiled once; the code then runs once per cursor with the
// cursor globals set, and the truthiness of its final value accepts or
// rejects the cursor. A run that fails is logged and rejects the cursor.
func (r *Runtime) Predicate(ctx context.Context, label, source string) (objc.Predicate, error) {
	code, err := r.compile(ctx, source, label, cursorGlobals(&objc.Node{}))
	if err != nil {
		return nil, err
	}
	return func(c objc.Cursor) bool {
		result, err := r.run(ctx, code, label, cursorGlobals(c))
		if err != nil {
			r.logger.Warn("predicate failed", "script", label, "usr", c.USR(), "err", err)
			return false
		}
		return result.IsTruthy()
	}, nil
}

// PredicateFromScript loads path through LoadScript and returns its
// Predicate.
func (r *Runtime) PredicateFromScript(ctx context.Context, path string) (objc.Predicate, error) {
	src, err := r.LoadScript(path)
	if err != nil {
		return nil, err
	}
	return r.Predicate(ctx, path, src)
}

// NewPredicate returns a Predicate for inline Risor source evaluated on a
// Runtime without a Store.
func NewPredicate(source string, opts ...RuntimeOption) (objc.Predicate, error) {
	return NewRuntime(nil, "", opts...).Predicate(context.Background(), "<inline>", source)
}
