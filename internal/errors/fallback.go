package errors

import (
	"context"
	"fmt"
)

// ============================================================
// Fallback
// ============================================================

// FallbackWithResult executes fn, falling back to another function on error.
func FallbackWithResult[T any](fn func() (T, error), fallback func(error) (T, error)) (T, error) {
	result, err := fn()
	if err != nil {
		return fallback(err)
	}
	return result, nil
}

// ============================================================
// Bounded waits
// ============================================================

// WithContextResult runs fn on its own goroutine and waits for it until ctx
// is done. When ctx ends first the wait is abandoned and ctx.Err() is
// returned wrapped; fn keeps running and its result is discarded.
func WithContextResult[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T

	type result struct {
		val T
		err error
	}

	// Buffered so an abandoned fn can still deliver and exit.
	resultChan := make(chan result, 1)
	go func() {
		val, err := fn()
		resultChan <- result{val, err}
	}()

	select {
	case res := <-resultChan:
		return res.val, res.err
	case <-ctx.Done():
		return zero, fmt.Errorf("wait abandoned: %w", ctx.Err())
	}
}
