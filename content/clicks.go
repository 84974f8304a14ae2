package content

import (
	"sync"
	"time"

	"github.com/keilerkonzept/topk/sliding"
)

// ClickSketch ranks hot sites by recent clicks with a sliding top-k sketch,
// so the ordering follows current habits instead of all-time counts. The
// window advances on wall-clock ticks.
type ClickSketch struct {
	mu       sync.Mutex
	sketch   *sliding.Sketch
	tickSize time.Duration
	lastTick time.Time
}

// SketchParams sizes the sketch. WindowSize is the number of ticks the
// window spans; TickSize is how much wall-clock time one tick covers.
type SketchParams struct {
	K          int
	Width      int
	Depth      int
	WindowSize int
	TickSize   time.Duration
}

func NewClickSketch(params SketchParams, now time.Time) *ClickSketch {
	if params.TickSize <= 0 {
		params.TickSize = time.Hour
	}
	instance := sliding.New(params.K, params.WindowSize,
		sliding.WithWidth(params.Width), sliding.WithDepth(params.Depth))

	return &ClickSketch{
		sketch:   instance,
		tickSize: params.TickSize,
		lastTick: now,
	}
}

// Click records one click on a site name.
func (cs *ClickSketch) Click(name string, now time.Time) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.advance(now)
	cs.sketch.Incr(name)
}

// Ranked returns site names in descending click order within the window.
func (cs *ClickSketch) Ranked(now time.Time) []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.advance(now)

	items := cs.sketch.SortedSlice()
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.Count == 0 {
			break
		}
		names = append(names, item.Item)
	}
	return names
}

// advance ticks the sketch once per elapsed tickSize. Callers hold the lock.
func (cs *ClickSketch) advance(now time.Time) {
	for now.Sub(cs.lastTick) >= cs.tickSize {
		cs.sketch.Tick()
		cs.lastTick = cs.lastTick.Add(cs.tickSize)
	}
}
