// Package scroll makes a finite block of page content scroll endlessly in
// both directions. The block is cloned into three stacked sections and the
// viewport is silently moved back by one section whenever it gets close to
// either end. The clones are identical, so the jump cannot be seen.
package scroll

import (
	"context"
	"sync"
	"time"
)

// DefaultSelectors are tried in order when looking for the scroll container.
var DefaultSelectors = []string{
	"#scroll-container",
	".scroll-container",
	".sys-project-content",
	".w-layout-layout",
}

// Options tunes the controller. Zero values fall back to the defaults.
type Options struct {
	Selectors      []string
	ImageTimeout   time.Duration
	SettleDelay    time.Duration
	ResizeDebounce time.Duration
	EdgeRatio      float64
	// RemeasureInterval re-measures section heights periodically, for pages
	// whose clones can drift apart in height after setup. Zero disables it.
	RemeasureInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		Selectors:      DefaultSelectors,
		ImageTimeout:   5000 * time.Millisecond,
		SettleDelay:    100 * time.Millisecond,
		ResizeDebounce: 200 * time.Millisecond,
		EdgeRatio:      DefaultEdgeRatio,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.Selectors) == 0 {
		o.Selectors = d.Selectors
	}
	if o.ImageTimeout <= 0 {
		o.ImageTimeout = d.ImageTimeout
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = d.SettleDelay
	}
	if o.ResizeDebounce <= 0 {
		o.ResizeDebounce = d.ResizeDebounce
	}
	if o.EdgeRatio <= 0 {
		o.EdgeRatio = d.EdgeRatio
	}
	return o
}

// divergeTolerance absorbs subpixel rounding between clones.
const divergeTolerance = 1.0

// State is a point-in-time view of the controller for debugging.
type State struct {
	Active        bool       `json:"active"`
	Initialized   bool       `json:"initialized"`
	Selector      string     `json:"selector,omitempty"`
	SectionHeight float64    `json:"sectionHeight"`
	Heights       [3]float64 `json:"heights"`
	Diverged      bool       `json:"diverged"`
	Settlement    Settlement `json:"settlement"`
	JumpsForward  int        `json:"jumpsForward"`
	JumpsBack     int        `json:"jumpsBack"`
	Closed        bool       `json:"closed"`
}

// Controller is one looping scroll container. It is safe for use from
// event callbacks and timers running on different goroutines.
type Controller struct {
	host Host
	opts Options

	throttle *FrameThrottle
	debounce *Debouncer

	mu          sync.Mutex
	container   Container
	selector    string
	snapshot    string
	geom        Geometry
	settlement  Settlement
	initialized bool
	release     func()
	jumpsFwd    int
	jumpsBack   int
	closed      bool

	ready     chan struct{}
	stop      chan struct{}
	closeOnce sync.Once
}

// New returns a controller for host. Nothing happens until Init.
func New(host Host, opts Options) *Controller {
	c := &Controller{
		host:  host,
		opts:  opts.withDefaults(),
		ready: make(chan struct{}),
		stop:  make(chan struct{}),
	}
	c.throttle = NewFrameThrottle(host.RequestFrame, c.Evaluate)
	c.debounce = NewDebouncer(c.opts.ResizeDebounce, c.Recalculate)
	return c
}

// Init finds the container, waits for its images, clones the content into
// three sections and schedules the landing on the middle one. A page
// without a matching container leaves the controller inert and is not an
// error. Init returns once the landing frame is scheduled; Ready is closed
// when listeners are attached.
func (c *Controller) Init(ctx context.Context) error {
	container, selector := c.find()
	if container == nil {
		return nil
	}

	snapshot := container.Snapshot()
	c.mu.Lock()
	c.container = container
	c.selector = selector
	c.snapshot = snapshot
	c.mu.Unlock()

	// Heights measured before images load are wrong.
	settlement, err := WaitForImages(ctx, container.Images(), c.opts.ImageTimeout, c.opts.SettleDelay)
	if err != nil {
		return err
	}

	h := container.ScrollHeight()
	container.Mount(BuildSections(snapshot))

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.geom = UniformGeometry(h)
	c.geom.Ratio = c.opts.EdgeRatio
	c.settlement = settlement
	c.initialized = true
	c.mu.Unlock()

	c.host.RequestFrame(c.land)
	return nil
}

func (c *Controller) find() (Container, string) {
	for _, sel := range c.opts.Selectors {
		if el := c.host.Find(sel); el != nil {
			return el, sel
		}
	}
	return nil, ""
}

// land runs on the first frame after mounting, once layout is committed.
func (c *Controller) land() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	h := c.geom.Height()
	c.mu.Unlock()

	c.host.ScrollTo(h)
	release := c.host.Listen(c.OnScroll, c.OnResize)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		release()
		return
	}
	c.release = release
	c.mu.Unlock()

	if c.opts.RemeasureInterval > 0 {
		go c.remeasureLoop(c.opts.RemeasureInterval)
	}
	close(c.ready)
}

// Ready is closed once the viewport has landed and listeners are attached.
func (c *Controller) Ready() <-chan struct{} { return c.ready }

// OnScroll is the scroll listener. Evaluation is deferred to the next
// frame and happens at most once per frame.
func (c *Controller) OnScroll() {
	c.throttle.Trigger()
}

// OnResize is the resize listener. Heights are re-measured once resizing
// has been quiet for the debounce interval.
func (c *Controller) OnResize() {
	c.debounce.Trigger()
}

// Evaluate applies the jump rule to the current scroll offset once.
func (c *Controller) Evaluate() {
	c.mu.Lock()
	if !c.initialized || c.closed {
		c.mu.Unlock()
		return
	}
	geom := c.geom
	c.mu.Unlock()

	y := c.host.ScrollY()
	next, jumped := geom.Reposition(y, c.host.ViewportHeight())
	if !jumped {
		return
	}
	c.host.ScrollTo(next)

	c.mu.Lock()
	if next > y {
		c.jumpsFwd++
	} else {
		c.jumpsBack++
	}
	c.mu.Unlock()
}

// Recalculate re-measures the mounted sections. It never moves the
// viewport; the next scroll evaluation uses the new heights. Sections
// that measure as zero (hidden, detached) keep their previous height.
func (c *Controller) Recalculate() {
	c.mu.Lock()
	container := c.container
	ok := c.initialized && !c.closed
	c.mu.Unlock()
	if !ok || container == nil {
		return
	}

	var measured [3]float64
	for i := range measured {
		measured[i] = container.MeasureSection(i)
	}

	c.mu.Lock()
	for i, h := range measured {
		if h > 0 {
			c.geom.Heights[i] = h
		}
	}
	c.mu.Unlock()
}

func (c *Controller) remeasureLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.Recalculate()
		case <-c.stop:
			return
		}
	}
}

// SectionHeight returns the current threshold height H.
func (c *Controller) SectionHeight() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geom.Height()
}

// State returns a snapshot of the controller for inspection.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Active:        c.container != nil,
		Initialized:   c.initialized,
		Selector:      c.selector,
		SectionHeight: c.geom.Height(),
		Heights:       c.geom.Heights,
		Diverged:      c.geom.Diverged(divergeTolerance),
		Settlement:    c.settlement,
		JumpsForward:  c.jumpsFwd,
		JumpsBack:     c.jumpsBack,
		Closed:        c.closed,
	}
}

// Close detaches listeners and stops pending timers. The mounted sections
// are left in place. Close is safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		release := c.release
		c.release = nil
		c.mu.Unlock()

		if release != nil {
			release()
		}
		c.debounce.Stop()
		close(c.stop)
	})
}
