package drive

import (
	"context"
	"sync"
	"sync/atomic"
)

// Handle refers to one started operation.
type Handle struct {
	id        uint64
	op        Operation
	cancel    context.CancelFunc
	cancelled atomic.Bool
	done      chan struct{}
	code      Code
}

// Operation returns the operation this handle was started for.
func (h *Handle) Operation() Operation {
	return h.op
}

// Cancel aborts the operation. If its callback has not run yet, it runs with
// CodeCancelled. Cancelling a finished operation has no effect.
func (h *Handle) Cancel() {
	h.cancelled.Store(true)
	h.cancel()
}

// Done is closed after the callback has run on the main loop.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Code returns the code delivered to the callback. Only valid after Done is
// closed.
func (h *Handle) Code() Code {
	return h.code
}

// OperationRegistry tracks operations that have been started but whose
// callback has not run yet.
type OperationRegistry struct {
	mu     sync.Mutex
	nextID uint64
	active map[uint64]*Handle
}

// NewOperationRegistry creates an empty registry.
func NewOperationRegistry() *OperationRegistry {
	return &OperationRegistry{active: make(map[uint64]*Handle)}
}

func (r *OperationRegistry) add(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	h.id = r.nextID
	r.active[h.id] = h
}

func (r *OperationRegistry) remove(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, h.id)
}

// Len returns the number of in-flight operations.
func (r *OperationRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// CancelAll cancels every in-flight operation.
func (r *OperationRegistry) CancelAll() {
	r.mu.Lock()
	handles := make([]*Handle, 0, len(r.active))
	for _, h := range r.active {
		handles = append(handles, h)
	}
	r.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
}
