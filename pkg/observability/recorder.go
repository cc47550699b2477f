package observability

import "sync"

// Recorder is an Observer that keeps every notification in memory.
// Tests use it to assert on reported operations.
type Recorder struct {
	mu         sync.Mutex
	operations []OperationContext
}

// ObserveOperation implements Observer.
func (r *Recorder) ObserveOperation(ctx OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, ctx)
}

// GetOperations returns a copy of the recorded operations.
func (r *Recorder) GetOperations() []OperationContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]OperationContext, len(r.operations))
	copy(out, r.operations)
	return out
}

// Last returns the most recent operation and false if none was recorded.
func (r *Recorder) Last() (OperationContext, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.operations) == 0 {
		return OperationContext{}, false
	}
	return r.operations[len(r.operations)-1], true
}
