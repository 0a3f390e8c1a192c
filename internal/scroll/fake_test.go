package scroll

import "sync"

type fakeHost struct {
	mu         sync.Mutex
	containers map[string]*fakeContainer
	scrollY    float64
	viewport   float64
	frames     []func()
	scrollTos  []float64
	onScroll   func()
	onResize   func()
	listening  bool
}

func newFakeHost(viewport float64) *fakeHost {
	return &fakeHost{containers: map[string]*fakeContainer{}, viewport: viewport}
}

func (h *fakeHost) Find(selector string) Container {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.containers[selector]; ok {
		return c
	}
	return nil
}

func (h *fakeHost) ScrollY() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scrollY
}

func (h *fakeHost) ViewportHeight() float64 { return h.viewport }

func (h *fakeHost) ScrollTo(y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scrollY = y
	h.scrollTos = append(h.scrollTos, y)
}

func (h *fakeHost) setScroll(y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scrollY = y
}

func (h *fakeHost) RequestFrame(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, fn)
}

func (h *fakeHost) Listen(onScroll, onResize func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onScroll, h.onResize, h.listening = onScroll, onResize, true
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.listening = false
	}
}

// flushFrames runs the callbacks queued so far, as one rendered frame.
func (h *fakeHost) flushFrames() int {
	h.mu.Lock()
	frames := h.frames
	h.frames = nil
	h.mu.Unlock()
	for _, fn := range frames {
		fn()
	}
	return len(frames)
}

func (h *fakeHost) pendingFrames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

func (h *fakeHost) isListening() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.listening
}

type fakeContainer struct {
	mu       sync.Mutex
	html     string
	height   float64
	images   []Image
	mounted  []Section
	sections [3]float64
	measured int
}

func newFakeContainer(html string, height float64, images ...Image) *fakeContainer {
	return &fakeContainer{
		html:     html,
		height:   height,
		images:   images,
		sections: [3]float64{height, height, height},
	}
}

func (c *fakeContainer) Snapshot() string      { return c.html }
func (c *fakeContainer) ScrollHeight() float64 { return c.height }
func (c *fakeContainer) Images() []Image       { return c.images }

func (c *fakeContainer) Mount(sections []Section) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = sections
}

func (c *fakeContainer) MeasureSection(i int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.measured++
	return c.sections[i]
}

func (c *fakeContainer) setSections(h ...float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy(c.sections[:], h)
}

func (c *fakeContainer) mountedSections() []Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

type fakeImage struct {
	mu       sync.Mutex
	complete bool
	settle   func()
}

func (i *fakeImage) Complete() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.complete
}

func (i *fakeImage) OnSettle(fn func()) {
	i.mu.Lock()
	done := i.complete
	i.settle = fn
	i.mu.Unlock()
	// Fired between the Complete check and registration.
	if done {
		fn()
	}
}

// fire simulates a load or error event.
func (i *fakeImage) fire() {
	i.mu.Lock()
	fn := i.settle
	i.complete = true
	i.mu.Unlock()
	if fn != nil {
		fn()
	}
}
