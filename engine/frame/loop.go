package frame

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/logger"
)

var (
	// ErrRunning is returned by Run when the loop is already running.
	ErrRunning = errors.New("frame: loop already running")
	// ErrStopped is returned by Run after Stop, and by Post once the loop has stopped.
	ErrStopped = errors.New("frame: loop stopped")
)

// loop implements the Loop interface.
// One goroutine owns every callback and posted function, so frame work never races itself.
type loop struct {
	mu    *sync.Mutex
	queue queue

	rateChannel chan time.Duration
	postChannel chan func()
	quitChannel chan struct{}
	quitOnce    sync.Once

	interval time.Duration
	running  bool
	start    time.Time
	now      func() time.Time

	log *logger.Logger
}

// Loop is a ticker-driven Scheduler. Pending callbacks fire together once per tick
// with the same timestamp. Functions handed to Post run between ticks on the loop goroutine.
type Loop interface {
	Scheduler

	// Post queues fn to run on the loop goroutine. It blocks while the queue is full.
	//
	// Parameters:
	//   - fn: the function to run
	//
	// Returns:
	//   - error: ErrStopped if the loop has been stopped
	Post(fn func()) error

	// Run drives the loop on the calling goroutine until ctx is done or Stop is called.
	//
	// Parameters:
	//   - ctx: the context bounding the loop
	//
	// Returns:
	//   - error: nil after Stop, ctx.Err() on cancellation, ErrRunning or ErrStopped on misuse
	Run(ctx context.Context) error

	// Stop ends Run. Safe to call multiple times.
	Stop()

	// SetRate changes the tick rate in frames per second. Values <= 0 select 60.
	//
	// Parameters:
	//   - fps: target frames per second
	SetRate(fps float64)

	// Now returns the current timestamp in milliseconds since the loop was created.
	//
	// Returns:
	//   - float64: the timestamp
	Now() float64
}

var _ Loop = &loop{}

// NewLoop creates a stopped Loop. Call Run to start ticking.
//
// Parameters:
//   - options: functional options for the loop
//
// Returns:
//   - Loop: the new loop
func NewLoop(options ...LoopBuilderOption) Loop {
	l := &loop{
		mu:          &sync.Mutex{},
		queue:       newQueue(),
		rateChannel: make(chan time.Duration, 1),
		postChannel: make(chan func(), 64),
		quitChannel: make(chan struct{}),
		interval:    time.Second / 60,
		now:         time.Now,
		log:         logger.L().Named("frame"),
	}
	for _, opt := range options {
		opt(l)
	}
	l.start = l.now()
	return l
}

func (l *loop) Request(cb Callback) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queue.request(cb)
}

func (l *loop) Cancel(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queue.cancel(h)
}

func (l *loop) Post(fn func()) error {
	select {
	case <-l.quitChannel:
		return ErrStopped
	default:
	}
	select {
	case l.postChannel <- fn:
		return nil
	case <-l.quitChannel:
		return ErrStopped
	}
}

func (l *loop) Now() float64 {
	return float64(l.now().Sub(l.start).Microseconds()) / 1000
}

func (l *loop) Stop() {
	l.quitOnce.Do(func() {
		close(l.quitChannel)
	})
}

func (l *loop) SetRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	rate := time.Duration(float64(time.Second) / fps)

	l.mu.Lock()
	running := l.running
	if !running {
		l.interval = rate
	}
	l.mu.Unlock()
	if !running {
		return
	}

	// replace any pending update
	select {
	case l.rateChannel <- rate:
	default:
		select {
		case <-l.rateChannel:
		default:
		}
		select {
		case l.rateChannel <- rate:
		default:
		}
	}
}

func (l *loop) Run(ctx context.Context) error {
	select {
	case <-l.quitChannel:
		return ErrStopped
	default:
	}

	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrRunning
	}
	l.running = true
	interval := l.interval
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.quitChannel:
			return nil
		case fn := <-l.postChannel:
			l.safely("post", fn)
		case <-ticker.C:
			l.tick()
		case rate := <-l.rateChannel:
			ticker.Reset(rate)
			l.mu.Lock()
			l.interval = rate
			l.mu.Unlock()
		}
	}
}

// tick fires every callback requested before it started.
func (l *loop) tick() {
	l.mu.Lock()
	cbs := l.queue.take()
	l.mu.Unlock()

	ts := l.Now()
	for _, cb := range cbs {
		l.safely("frame", func() { cb(ts) })
	}
}

// safely runs fn, logging instead of unwinding the loop goroutine on panic.
func (l *loop) safely(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorw("frame goroutine recovered from panic", "kind", kind, "panic", r)
		}
	}()
	fn()
}
