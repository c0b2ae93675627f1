package mem

import (
	"context"
	"sync"

	"github.com/meowmeowcode/swiftgrid"
)

// Repo keeps records in memory and answers grid queries with an [Evaluator].
// It's safe for concurrent use.
type Repo[T any] struct {
	mu        sync.RWMutex
	records   []T
	evaluator *Evaluator[T]
}

// NewRepo creates an empty [Repo].
func NewRepo[T any](conf Conf) *Repo[T] {
	return &Repo[T]{evaluator: NewEvaluator[T](conf)}
}

func (r *Repo[T]) Fetch(ctx context.Context, q swiftgrid.Query) (swiftgrid.Result[T], error) {
	if err := ctx.Err(); err != nil {
		return swiftgrid.Result[T]{}, err
	}
	return r.evaluator.Evaluate(r.snapshot(), q)
}

func (r *Repo[T]) Simple() swiftgrid.SimpleSource[T] {
	return swiftgrid.NewSimpleSource[T](r)
}

func (r *Repo[T]) Get(ctx context.Context, f swiftgrid.Filter) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.find(f)
	if i < 0 {
		return zero, swiftgrid.ErrNotFound
	}
	return r.records[i], nil
}

func (r *Repo[T]) Add(ctx context.Context, entity T) error {
	return r.AddMany(ctx, []T{entity})
}

func (r *Repo[T]) AddMany(ctx context.Context, entities []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, entities...)
	return nil
}

// Update replaces the first record matching a filter.
func (r *Repo[T]) Update(ctx context.Context, f swiftgrid.Filter, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(f)
	if i < 0 {
		return swiftgrid.ErrNotFound
	}
	records := make([]T, len(r.records))
	copy(records, r.records)
	records[i] = entity
	r.records = records
	return nil
}

func (r *Repo[T]) CountAll(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

func (r *Repo[T]) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	return nil
}

// find returns an index of the first record matching a filter.
// Unlike queries, lookups don't let a filter that can't be applied match anything.
func (r *Repo[T]) find(f swiftgrid.Filter) int {
	p, ok := r.evaluator.compile(f, r.records)
	if !ok {
		return -1
	}
	for i, record := range r.records {
		if p(record) {
			return i
		}
	}
	return -1
}

// snapshot returns the current records. Writers never modify a published
// slice in place, so it can be read without holding the lock.
func (r *Repo[T]) snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[:len(r.records):len(r.records)]
}
