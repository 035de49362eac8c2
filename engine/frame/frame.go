package frame

// Callback receives the frame timestamp in milliseconds since the scheduler started.
type Callback func(timestamp float64)

// Handle identifies a pending frame request. The zero Handle is never issued.
type Handle uint64

// Scheduler delivers one-shot frame callbacks, the way a browser's animation frame works:
// a callback requested during a frame runs on the next frame, never the current one.
type Scheduler interface {
	// Request schedules cb for the next frame.
	//
	// Parameters:
	//   - cb: the callback
	//
	// Returns:
	//   - Handle: the handle to cancel the request with
	Request(cb Callback) Handle

	// Cancel drops a pending request. Unknown or already fired handles are ignored.
	//
	// Parameters:
	//   - h: the handle returned by Request
	Cancel(h Handle)
}

// queue is the pending-request bookkeeping shared by every Scheduler implementation.
// It is not safe for concurrent use; owners guard it with their own mutex.
type queue struct {
	next    Handle
	order   []Handle
	pending map[Handle]Callback
}

func newQueue() queue {
	return queue{pending: make(map[Handle]Callback)}
}

func (q *queue) request(cb Callback) Handle {
	q.next++
	q.pending[q.next] = cb
	q.order = append(q.order, q.next)
	return q.next
}

func (q *queue) cancel(h Handle) {
	delete(q.pending, h)
}

// take removes and returns every pending callback in request order.
func (q *queue) take() []Callback {
	if len(q.pending) == 0 {
		q.order = q.order[:0]
		return nil
	}
	out := make([]Callback, 0, len(q.pending))
	for _, h := range q.order {
		if cb, ok := q.pending[h]; ok {
			out = append(out, cb)
			delete(q.pending, h)
		}
	}
	q.order = q.order[:0]
	return out
}

func (q *queue) len() int {
	return len(q.pending)
}
