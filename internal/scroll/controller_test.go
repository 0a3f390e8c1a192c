package scroll

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastOptions() Options {
	o := DefaultOptions()
	o.ImageTimeout = 200 * time.Millisecond
	o.SettleDelay = 5 * time.Millisecond
	o.ResizeDebounce = 30 * time.Millisecond
	return o
}

// setup returns an initialized controller that has landed on the middle section.
func setup(t *testing.T, h, v float64) (*Controller, *fakeHost, *fakeContainer) {
	t.Helper()
	host := newFakeHost(v)
	box := newFakeContainer("<div>work</div>", h)
	host.containers["#scroll-container"] = box

	c := New(host, fastOptions())
	t.Cleanup(c.Close)
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if n := host.flushFrames(); n != 1 {
		t.Fatalf("expected the landing frame, got %d frames", n)
	}
	select {
	case <-c.Ready():
	default:
		t.Fatal("controller not ready after landing frame")
	}
	return c, host, box
}

func TestInitWithoutContainerIsInert(t *testing.T) {
	host := newFakeHost(800)
	c := New(host, fastOptions())
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if host.pendingFrames() != 0 {
		t.Error("inert controller should not schedule frames")
	}
	st := c.State()
	if st.Active || st.Initialized {
		t.Errorf("state = %+v, want inert", st)
	}

	// Listeners are never attached, but calling them must be harmless.
	c.OnScroll()
	host.flushFrames()
	c.Recalculate()
	if len(host.scrollTos) != 0 {
		t.Error("inert controller moved the viewport")
	}
}

func TestInitSelectorPriority(t *testing.T) {
	host := newFakeHost(800)
	host.containers[".w-layout-layout"] = newFakeContainer("last", 100)
	host.containers[".scroll-container"] = newFakeContainer("second", 100)

	c := New(host, fastOptions())
	defer c.Close()
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := c.State().Selector; got != ".scroll-container" {
		t.Errorf("selector = %q, want .scroll-container", got)
	}
}

func TestInitMountsThreeClonesAndLands(t *testing.T) {
	c, host, box := setup(t, 1500, 800)

	sections := box.mountedSections()
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	for i, tag := range []SectionTag{Before, Middle, After} {
		if sections[i].Tag != tag || sections[i].Content != "<div>work</div>" {
			t.Errorf("section %d = %+v", i, sections[i])
		}
	}

	if len(host.scrollTos) != 1 || host.scrollTos[0] != 1500 {
		t.Errorf("landing scrolls = %v, want [1500]", host.scrollTos)
	}
	if !host.isListening() {
		t.Error("listeners not attached")
	}
	if c.SectionHeight() != 1500 {
		t.Errorf("SectionHeight = %v, want 1500", c.SectionHeight())
	}
	if c.State().Diverged {
		t.Error("identical clones should not report divergence")
	}
}

func TestInitWaitsForImages(t *testing.T) {
	host := newFakeHost(800)
	img := &fakeImage{}
	box := newFakeContainer("<img>", 900, &fakeImage{complete: true}, img)
	host.containers["#scroll-container"] = box

	c := New(host, fastOptions())
	defer c.Close()

	done := make(chan error, 1)
	go func() { done <- c.Init(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	if box.mountedSections() != nil {
		t.Fatal("mounted before images settled")
	}
	img.fire()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Init: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Init did not finish after images settled")
	}
	st := c.State()
	if st.Settlement.Settled != 2 || st.Settlement.TimedOut {
		t.Errorf("settlement = %+v", st.Settlement)
	}
}

func TestInitProceedsAfterImageTimeout(t *testing.T) {
	host := newFakeHost(800)
	box := newFakeContainer("<img>", 900, &fakeImage{})
	host.containers["#scroll-container"] = box

	opts := fastOptions()
	opts.ImageTimeout = 40 * time.Millisecond
	c := New(host, opts)
	defer c.Close()

	start := time.Now()
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Init should give up waiting at the timeout")
	}
	if len(box.mountedSections()) != 3 {
		t.Error("expected sections to be mounted after timeout")
	}
	if !c.State().Settlement.TimedOut {
		t.Error("expected TimedOut settlement")
	}
}

func TestInitCancelled(t *testing.T) {
	host := newFakeHost(800)
	box := newFakeContainer("<img>", 900, &fakeImage{})
	host.containers["#scroll-container"] = box

	opts := fastOptions()
	opts.ImageTimeout = 5 * time.Second
	c := New(host, opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Init(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if box.mountedSections() != nil {
		t.Error("cancelled Init should not mount")
	}
}

func TestEvaluateJumps(t *testing.T) {
	const h, v = 1000.0, 800.0
	c, host, _ := setup(t, h, v)

	host.setScroll(120)
	c.Evaluate()
	if got := host.ScrollY(); got != 1120 {
		t.Errorf("near top: scroll = %v, want 1120", got)
	}

	host.setScroll(1900)
	c.Evaluate()
	if got := host.ScrollY(); got != 900 {
		t.Errorf("near bottom: scroll = %v, want 900", got)
	}

	host.setScroll(1200)
	before := len(host.scrollTos)
	c.Evaluate()
	if host.ScrollY() != 1200 || len(host.scrollTos) != before {
		t.Error("safe zone evaluation should not write the scroll offset")
	}

	st := c.State()
	if st.JumpsForward != 1 || st.JumpsBack != 1 {
		t.Errorf("jumps = %d/%d, want 1/1", st.JumpsForward, st.JumpsBack)
	}
}

func TestOnScrollThrottledPerFrame(t *testing.T) {
	c, host, _ := setup(t, 1000, 800)

	host.setScroll(50)
	for i := 0; i < 20; i++ {
		host.onScroll()
	}
	if n := host.pendingFrames(); n != 1 {
		t.Fatalf("expected 1 pending frame, got %d", n)
	}
	host.flushFrames()
	if got := host.ScrollY(); got != 1050 {
		t.Errorf("scroll = %v, want a single jump to 1050", got)
	}
	if c.State().JumpsForward != 1 {
		t.Error("expected exactly one jump")
	}
}

func TestResizeRecalculatesAfterQuiet(t *testing.T) {
	c, host, box := setup(t, 1000, 800)
	scrollsBefore := len(host.scrollTos)

	box.setSections(1300, 1300, 1300)
	for i := 0; i < 4; i++ {
		host.onResize()
		time.Sleep(10 * time.Millisecond)
	}
	if c.SectionHeight() != 1000 {
		t.Fatal("recalculated before the debounce period elapsed")
	}

	deadline := time.Now().Add(time.Second)
	for c.SectionHeight() != 1300 {
		if time.Now().After(deadline) {
			t.Fatalf("SectionHeight = %v, want 1300", c.SectionHeight())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(host.scrollTos) != scrollsBefore {
		t.Error("resize must not move the viewport")
	}
}

func TestRecalculateTracksDivergentSections(t *testing.T) {
	c, host, box := setup(t, 1000, 800)

	box.setSections(1000, 1100, 0)
	c.Recalculate()

	st := c.State()
	want := [3]float64{1000, 1100, 1000} // zero keeps the previous height
	if st.Heights != want {
		t.Errorf("heights = %v, want %v", st.Heights, want)
	}
	if !st.Diverged {
		t.Error("state should report diverged sections")
	}

	host.setScroll(1900)
	c.Evaluate()
	if got := host.ScrollY(); got != 800 {
		t.Errorf("back jump should use the middle height: scroll = %v, want 800", got)
	}
}

func TestRemeasureInterval(t *testing.T) {
	host := newFakeHost(800)
	box := newFakeContainer("x", 1000)
	host.containers["#scroll-container"] = box

	opts := fastOptions()
	opts.RemeasureInterval = 10 * time.Millisecond
	c := New(host, opts)
	defer c.Close()
	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	host.flushFrames()

	box.setSections(1250, 1250, 1250)
	deadline := time.Now().Add(time.Second)
	for c.SectionHeight() != 1250 {
		if time.Now().After(deadline) {
			t.Fatal("periodic re-measure did not pick up the new height")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCloseDetaches(t *testing.T) {
	c, host, _ := setup(t, 1000, 800)

	c.Close()
	c.Close()
	if host.isListening() {
		t.Error("listeners still attached after Close")
	}
	if !c.State().Closed {
		t.Error("state should report closed")
	}

	host.setScroll(10)
	c.Evaluate()
	if host.ScrollY() != 10 {
		t.Error("closed controller moved the viewport")
	}
}

func TestCloseBeforeLanding(t *testing.T) {
	host := newFakeHost(800)
	host.containers["#scroll-container"] = newFakeContainer("x", 1000)

	c := New(host, fastOptions())
	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.Close()
	host.flushFrames()

	if len(host.scrollTos) != 0 || host.isListening() {
		t.Error("landing frame ran after Close")
	}
}

func TestShortSectionDoesNotFlip(t *testing.T) {
	c, host, _ := setup(t, 100, 1000)
	before := len(host.scrollTos)

	for _, y := range []float64{0, 40, 100, 190} {
		host.setScroll(y)
		c.Evaluate()
	}
	if len(host.scrollTos) != before {
		t.Errorf("short section jumped: scrolls %v", host.scrollTos[before:])
	}
}
