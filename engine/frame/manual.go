package frame

import "sync"

// Manual is a Scheduler driven by explicit Step calls. Tests use it to feed exact timestamps.
type Manual struct {
	mu    *sync.Mutex
	queue queue
}

var _ Scheduler = &Manual{}

// NewManual creates a Manual scheduler with nothing pending.
//
// Returns:
//   - *Manual: the scheduler
func NewManual() *Manual {
	return &Manual{mu: &sync.Mutex{}, queue: newQueue()}
}

func (m *Manual) Request(cb Callback) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.request(cb)
}

func (m *Manual) Cancel(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue.cancel(h)
}

// Step fires every callback pending before the call with the given timestamp.
//
// Parameters:
//   - timestamp: the frame time in milliseconds
//
// Returns:
//   - int: the number of callbacks fired
func (m *Manual) Step(timestamp float64) int {
	m.mu.Lock()
	cbs := m.queue.take()
	m.mu.Unlock()

	for _, cb := range cbs {
		cb(timestamp)
	}
	return len(cbs)
}

// Pending returns the number of requests waiting for the next Step.
//
// Returns:
//   - int: the pending count
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.len()
}
