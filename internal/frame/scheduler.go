// Package frame drives a renderable target at a bounded rate with at most
// one update cycle outstanding at any time.
package frame

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"quadloop/internal/logging"
	"quadloop/internal/mathutil"
	"quadloop/internal/viewmatrix"
)

// DefaultFPS is the target frame rate.
const DefaultFPS = 60

// Resolution is the viewport size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// Vec2 returns the resolution as a shader vec2.
func (r Resolution) Vec2() [2]float64 {
	return [2]float64{float64(r.Width), float64(r.Height)}
}

// Target receives one update per tick. Update is called synchronously on
// the ticking goroutine and must not block waiting on the scheduler.
type Target interface {
	Update(view mathutil.Mat4, runTime time.Duration, res Resolution)
}

// TargetFunc adapts a function to Target.
type TargetFunc func(view mathutil.Mat4, runTime time.Duration, res Resolution)

func (f TargetFunc) Update(view mathutil.Mat4, runTime time.Duration, res Resolution) {
	f(view, runTime, res)
}

// Scheduler ticks a Target: each tick advances the run clock by the
// measured time since the previous tick, builds the camera's view matrix
// and hands both to the target, then re-arms a one-shot timer for the next
// tick. A tick requested while one is in flight is dropped.
type Scheduler struct {
	clock    Clock
	interval time.Duration
	log      *slog.Logger

	mu         sync.Mutex
	target     Target
	camera     viewmatrix.Camera
	resolution Resolution
	inFlight   bool
	started    bool
	stopped    bool
	lastTick   time.Time
	runTime    time.Duration
	ticks      uint64
	timer      Timer
	warnedView bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithInterval sets the delay between the end of one tick and the next.
// Negative values are treated as zero.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = max(d, 0) }
}

// WithFPS sets the interval to 1s/fps. Non-positive rates are ignored.
func WithFPS(fps int) Option {
	return func(s *Scheduler) {
		if fps > 0 {
			s.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithLogger overrides the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// New creates an idle scheduler for the given camera.
func New(cam viewmatrix.Camera, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    SystemClock{},
		interval: time.Second / DefaultFPS,
		camera:   cam,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logging.Logger()
	}
	return s
}

// Start resets the run clock, ticks once synchronously and leaves the next
// tick scheduled. Calling Start on a running or stopped scheduler is a no-op.
func (s *Scheduler) Start(target Target) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.target = target
	s.lastTick = s.clock.Now()
	s.runTime = 0
	s.mu.Unlock()

	s.log.Info("frame: scheduler started", "interval", s.interval)
	s.Tick()
}

// Tick runs one update cycle unless one is already in flight, the
// scheduler has not started, or it has been stopped.
//
// The in-flight flag is raised before the target runs and cleared only by
// the timer armed at the end of the tick, so calls made from inside
// Update, or from other goroutines before the timer fires, are no-ops.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	if s.inFlight || !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.inFlight = true

	now := s.clock.Now()
	s.runTime += now.Sub(s.lastTick)
	s.lastTick = now
	s.ticks++

	cam := s.camera
	view := cam.ViewMatrix()
	runTime := s.runTime
	res := s.resolution
	target := s.target
	warn := !s.warnedView && !view.IsFinite()
	if warn {
		s.warnedView = true
	}
	s.mu.Unlock()

	if warn {
		s.log.Warn("frame: camera produces a non-finite view matrix",
			"position", cam.Position, "target", cam.Target, "top", cam.Top)
	}

	target.Update(view, runTime, res)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.timer = s.clock.AfterFunc(s.interval, s.fire)
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	s.inFlight = false
	s.timer = nil
	s.mu.Unlock()
	s.Tick()
}

// Stop cancels the pending tick. Further ticks are no-ops. Stop does not
// wait for an Update already running on another goroutine.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	ticks, runTime := s.ticks, s.runTime
	s.mu.Unlock()

	s.log.Info("frame: scheduler stopped", "ticks", ticks, "run_time", runTime)
}

// Run starts the scheduler and blocks until ctx is done, then stops it.
func (s *Scheduler) Run(ctx context.Context, target Target) error {
	s.Start(target)
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}

// OnResize stores the viewport size for the next tick.
func (s *Scheduler) OnResize(width, height int) {
	s.mu.Lock()
	s.resolution = Resolution{Width: width, Height: height}
	s.mu.Unlock()
}

// SetCamera replaces the camera for the next tick.
func (s *Scheduler) SetCamera(c viewmatrix.Camera) {
	s.mu.Lock()
	s.camera = c
	s.warnedView = false
	s.mu.Unlock()
}

// Camera returns the current camera.
func (s *Scheduler) Camera() viewmatrix.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

// RunTime returns the accumulated run clock.
func (s *Scheduler) RunTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runTime
}

// Resolution returns the stored viewport size.
func (s *Scheduler) Resolution() Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolution
}

// Ticks returns the number of update cycles delivered.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Interval returns the delay between ticks.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}
