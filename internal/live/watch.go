package live

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/radovskyb/watcher"
)

// WatchFile polls the directory holding path and publishes a "content"
// event whenever path itself is written, created or replaced. It blocks
// until ctx is cancelled.
func WatchFile(ctx context.Context, path string, hub *Hub, interval time.Duration) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w := watcher.New()
	w.FilterOps(watcher.Write, watcher.Create, watcher.Rename, watcher.Move)

	// The store writes via rename, so watch the directory rather than the file.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	go func() {
		done := ctx.Done()
		for {
			select {
			case ev := <-w.Event:
				if !matches(ev, target) {
					continue
				}
				modified := time.Now()
				if ev.FileInfo != nil {
					modified = ev.ModTime()
				}
				hub.Publish(Event{Type: "content", Path: filepath.Base(target), Modified: modified})
			case err := <-w.Error:
				log.Println("live:", err)
			case <-w.Closed:
				return
			case <-done:
				done = nil
				// Close is a no-op until Start is running, and it blocks
				// while Start is delivering an event, so keep draining here.
				go func() {
					w.Wait()
					w.Close()
				}()
			}
		}
	}()

	log.Printf("Watching %s for changes...", target)
	if err := w.Start(interval); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	return nil
}

func matches(ev watcher.Event, target string) bool {
	if ev.Path == target {
		return true
	}
	// Renames report "old -> new" in OldPath/Path.
	return ev.OldPath == target
}
