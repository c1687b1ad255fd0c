package domaintest

import (
	"context"
	"sync"
)

type txKey struct{}

// TxRecorder is a tx.ReadOnlyManager that runs fn directly and counts the
// transactions it was asked to open. Nested calls join the outer one.
type TxRecorder struct {
	mu        sync.Mutex
	readWrite int
	readOnly  int
}

// RunInTransaction implements tx.Manager.
func (r *TxRecorder) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.run(ctx, "rw", &r.readWrite, fn)
}

// ReadOnly implements tx.ReadOnlyManager.
func (r *TxRecorder) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.run(ctx, "ro", &r.readOnly, fn)
}

func (r *TxRecorder) run(ctx context.Context, mode string, counter *int, fn func(ctx context.Context) error) error {
	if InTx(ctx) != "" {
		return fn(ctx)
	}
	r.mu.Lock()
	*counter++
	r.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, mode))
}

// Counts returns the read-write and read-only transactions opened so far.
func (r *TxRecorder) Counts() (readWrite, readOnly int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readWrite, r.readOnly
}

// InTx reports the mode of the transaction in ctx: "rw", "ro" or "".
func InTx(ctx context.Context) string {
	mode, _ := ctx.Value(txKey{}).(string)
	return mode
}
