package hostapp

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/hostbridge/dispatch"
)

// ErrLoopClosed is returned when registering work on a stopped loop.
var ErrLoopClosed = errors.New("hostapp: loop closed")

// DefaultIdleInterval is the pause between idle cycles.
const DefaultIdleInterval = 10 * time.Millisecond

// TimerFunc is a callback run on the main thread. Returning again=true
// re-registers it to run after next.
type TimerFunc func() (next time.Duration, again bool)

type timer struct {
	due time.Time
	seq uint64
	fn  TimerFunc
}

// Loop is the host's single main thread. Timers and idle hooks only run on
// the goroutine that called Run, which is locked to its OS thread.
type Loop struct {
	idle time.Duration

	mu     sync.Mutex
	timers []timer
	seq    uint64
	closed bool
	idles  []func()

	wake    chan struct{}
	onMain  atomic.Bool
	tid     atomic.Int64
	started atomic.Bool
}

var _ dispatch.Scheduler = (*Loop)(nil)

// NewLoop creates a loop that runs idle hooks every idle interval. Zero
// selects DefaultIdleInterval.
func NewLoop(idle time.Duration) *Loop {
	if idle <= 0 {
		idle = DefaultIdleInterval
	}
	return &Loop{
		idle: idle,
		wake: make(chan struct{}, 1),
	}
}

// Register schedules fn to run on the main thread after delay.
func (l *Loop) Register(fn TimerFunc, delay time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLoopClosed
	}
	l.seq++
	l.timers = append(l.timers, timer{due: time.Now().Add(delay), seq: l.seq, fn: fn})
	l.signal()
	return nil
}

// Submit runs task once on the main thread as soon as possible.
func (l *Loop) Submit(task func()) error {
	err := l.Register(func() (time.Duration, bool) {
		task()
		return 0, false
	}, 0)
	if errors.Is(err, ErrLoopClosed) {
		return errors.Join(dispatch.ErrSchedulerClosed, err)
	}
	return err
}

// OnIdle adds a hook run once per idle cycle.
func (l *Loop) OnIdle(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.idles = append(l.idles, fn)
}

// OnMainThread reports whether the caller is running inside a timer or idle
// hook of this loop. On Linux the caller's OS thread must also be the one
// Run locked; elsewhere only the running flag is checked, so another
// goroutine calling while a task runs is not told apart.
func (l *Loop) OnMainThread() bool {
	if !l.onMain.Load() {
		return false
	}
	tid := l.tid.Load()
	return tid == 0 || int64(threadID()) == tid
}

// Run drives the loop until ctx is done. Pending timers are dropped and
// later registrations fail with ErrLoopClosed.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("hostapp: loop already running")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	l.tid.Store(int64(threadID()))

	defer func() {
		l.mu.Lock()
		l.closed = true
		l.timers = nil
		l.mu.Unlock()
	}()

	tick := time.NewTicker(l.idle)
	defer tick.Stop()

	for {
		l.runDue()

		var (
			due   <-chan time.Time
			timer *time.Timer
		)
		if wait := l.untilNext(); wait >= 0 {
			timer = time.NewTimer(wait)
			due = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return nil
		case <-l.wake:
		case <-due:
		case <-tick.C:
			l.runIdle()
		}
		stopTimer(timer)
	}
}

// runDue runs every timer whose due time has passed, in due order.
func (l *Loop) runDue() {
	now := time.Now()
	l.mu.Lock()
	var ready, later []timer
	for _, t := range l.timers {
		if !t.due.After(now) {
			ready = append(ready, t)
		} else {
			later = append(later, t)
		}
	}
	l.timers = later
	l.mu.Unlock()

	sort.Slice(ready, func(i, j int) bool {
		if ready[i].due.Equal(ready[j].due) {
			return ready[i].seq < ready[j].seq
		}
		return ready[i].due.Before(ready[j].due)
	})

	for _, t := range ready {
		next, again := l.call(t.fn)
		if again {
			_ = l.Register(t.fn, next)
		}
	}
}

func (l *Loop) call(fn TimerFunc) (time.Duration, bool) {
	l.onMain.Store(true)
	defer l.onMain.Store(false)
	return fn()
}

func (l *Loop) runIdle() {
	l.mu.Lock()
	hooks := append([]func(){}, l.idles...)
	l.mu.Unlock()

	l.onMain.Store(true)
	defer l.onMain.Store(false)
	for _, fn := range hooks {
		fn()
	}
}

// untilNext returns the wait before the earliest timer, or -1 if none.
func (l *Loop) untilNext() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return -1
	}
	earliest := l.timers[0].due
	for _, t := range l.timers[1:] {
		if t.due.Before(earliest) {
			earliest = t.due
		}
	}
	wait := time.Until(earliest)
	if wait < 0 {
		wait = 0
	}
	return wait
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
