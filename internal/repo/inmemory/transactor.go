package inmemory

import "context"

// Transactor runs f directly. Fakes do not roll back; tests that need to
// observe atomicity assert on which writes were attempted instead.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	t.Calls++

	return f(ctx)
}
