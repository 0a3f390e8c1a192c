package scroll

// Host is the page the controller runs in: the viewport, the document to
// search, and the browser's frame and event scheduling.
type Host interface {
	// Find returns the first element matching selector, or nil.
	Find(selector string) Container
	ScrollY() float64
	ViewportHeight() float64
	// ScrollTo jumps instantly, without smooth scrolling.
	ScrollTo(y float64)
	// RequestFrame runs fn once, after the next layout commit.
	RequestFrame(fn func())
	// Listen attaches scroll and resize listeners and returns a func that
	// detaches them.
	Listen(onScroll, onResize func()) (release func())
}

// Container is the scrollable element whose content gets looped.
type Container interface {
	// Snapshot returns the original content, captured before any mutation.
	Snapshot() string
	ScrollHeight() float64
	Images() []Image
	// Mount replaces the container's content with a wrapper holding the
	// given sections in order.
	Mount(sections []Section)
	// MeasureSection returns the rendered height of the i-th mounted section.
	MeasureSection(i int) float64
}

// Image is an image element inside the container.
type Image interface {
	// Complete reports whether the image has already loaded or failed.
	Complete() bool
	// OnSettle registers fn to run once when the image loads or errors.
	OnSettle(fn func())
}

// SectionTag names one of the three stacked copies.
type SectionTag string

const (
	Before SectionTag = "before"
	Middle SectionTag = "middle"
	After  SectionTag = "after"
)

// Class names applied to the generated elements.
const (
	WrapperClass = "infinite-scroll-wrapper"
	SectionClass = "infinite-scroll-section"
)

// Section is one clone of the content block.
type Section struct {
	Tag     SectionTag
	Content string
}

// BuildSections clones snapshot into the before, middle and after sections.
func BuildSections(snapshot string) []Section {
	tags := []SectionTag{Before, Middle, After}
	sections := make([]Section, len(tags))
	for i, tag := range tags {
		sections[i] = Section{Tag: tag, Content: snapshot}
	}
	return sections
}
