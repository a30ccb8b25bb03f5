package service

import (
	"context"
	"sync"
	"time"
)

// inFlightRender tracks a single chart render that multiple callers may wait for.
type inFlightRender struct {
	done   chan struct{}
	result []byte
	err    error
}

// renderCoalescer collapses concurrent renders of the same chart key into one.
type renderCoalescer struct {
	mu       sync.Mutex
	inFlight map[string]*inFlightRender
	timeout  time.Duration
}

func newRenderCoalescer(timeout time.Duration) *renderCoalescer {
	return &renderCoalescer{
		inFlight: make(map[string]*inFlightRender),
		timeout:  timeout,
	}
}

// GetOrDo runs fn for key unless a render for key is already in flight, in which
// case it waits for that result. shared reports whether the result came from
// another caller's render. Waiting respects ctx and the coalescer timeout; the
// render itself always completes so later callers still see its result.
func (rc *renderCoalescer) GetOrDo(ctx context.Context, key string, fn func() ([]byte, error)) (result []byte, shared bool, err error) {
	rc.mu.Lock()
	req, exists := rc.inFlight[key]
	if !exists {
		req = &inFlightRender{done: make(chan struct{})}
		rc.inFlight[key] = req
		rc.mu.Unlock()

		go func() {
			req.result, req.err = fn()
			close(req.done)
			rc.cleanup(key)
		}()
	} else {
		rc.mu.Unlock()
	}

	waitCtx, cancel := context.WithTimeout(ctx, rc.timeout)
	defer cancel()
	select {
	case <-req.done:
		return req.result, exists, req.err
	case <-waitCtx.Done():
		return nil, exists, waitCtx.Err()
	}
}

// cleanup removes the in-flight render for key once it completes.
func (rc *renderCoalescer) cleanup(key string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	delete(rc.inFlight, key)
}
