package scroll

import (
	"context"
	"time"
)

// Settlement describes how the image wait ended.
type Settlement struct {
	Total    int  `json:"total"`
	Settled  int  `json:"settled"`
	TimedOut bool `json:"timedOut"`
}

// WaitForImages blocks until every image has loaded or failed, or until
// timeout elapses, whichever is first. A timeout is not an error: the
// caller proceeds with whatever has loaded. With no images it waits
// emptyDelay so layout can settle. Only ctx cancellation returns an error.
func WaitForImages(ctx context.Context, images []Image, timeout, emptyDelay time.Duration) (Settlement, error) {
	s := Settlement{Total: len(images)}

	if len(images) == 0 {
		t := time.NewTimer(emptyDelay)
		defer t.Stop()
		select {
		case <-t.C:
			return s, nil
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}

	settled := make(chan struct{}, len(images))
	signal := func() {
		select {
		case settled <- struct{}{}:
		default:
		}
	}
	for _, img := range images {
		if img.Complete() {
			signal()
			continue
		}
		img.OnSettle(signal)
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for s.Settled < s.Total {
		select {
		case <-settled:
			s.Settled++
		case <-deadline.C:
			s.TimedOut = true
			return s, nil
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
	return s, nil
}
