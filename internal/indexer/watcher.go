package indexer

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// debounceWindow is the stability window a burst of filesystem events
// must go quiet for before it triggers a reindex.
const debounceWindow = 2 * time.Second

// periodicInterval is the fallback trigger that catches any change the
// watcher missed (a network mount drop, a watch limit, etc).
const periodicInterval = time.Hour

// watchGlobs restricts watcher-triggered reindexing to the file types
// that can actually change the index's content.
var watchGlobs = []string{"*.jar", "*.pom"}

type watchState struct {
	fsw    *fsnotify.Watcher
	ticker *time.Ticker
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// StartWatching observes the configured roots and funnels every
// qualifying event, plus an hourly tick, into Index. All triggers share
// the same single-flight guard; no event is ever queued behind an
// in-progress run. Call Stop to release the watcher and ticker.
func (ix *Indexer) StartWatching(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, root := range []string{ix.cfg.MavenRepo, ix.cfg.GradleRepo} {
		if root == "" {
			continue
		}
		if err := addRecursive(fsw, root); err != nil {
			ix.diag.Errorf("watch %s: %v", root, err)
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	ws := &watchState{fsw: fsw, ticker: time.NewTicker(periodicInterval), cancel: cancel}
	ix.watch = ws

	ws.wg.Add(1)
	go ix.watchLoop(watchCtx, ws)

	return nil
}

// Stop releases the watcher and ticker. Safe to call if StartWatching
// was never called.
func (ix *Indexer) Stop() {
	if ix.watch == nil {
		return
	}
	ix.watch.cancel()
	ix.watch.ticker.Stop()
	ix.watch.fsw.Close()
	ix.watch.wg.Wait()
	ix.watch = nil
}

func (ix *Indexer) watchLoop(ctx context.Context, ws *watchState) {
	defer ws.wg.Done()

	var mu sync.Mutex
	var timer *time.Timer

	fire := func() {
		mu.Lock()
		timer = nil
		mu.Unlock()
		if err := ix.Index(ctx); err != nil {
			ix.diag.Errorf("watcher-triggered index: %v", err)
		}
	}

	debounce := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer == nil {
			timer = time.AfterFunc(debounceWindow, fire)
		} else {
			timer.Reset(debounceWindow)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ws.fsw.Events:
			if !ok {
				return
			}
			if matchesWatchGlobs(event.Name) {
				debounce()
			}
		case err, ok := <-ws.fsw.Errors:
			if !ok {
				return
			}
			ix.diag.Errorf("watcher error: %v", err)
		case <-ws.ticker.C:
			if err := ix.Index(ctx); err != nil {
				ix.diag.Errorf("periodic index: %v", err)
			}
		}
	}
}

func matchesWatchGlobs(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(slashed)
	for _, g := range watchGlobs {
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}

// addRecursive registers a watch on root and every subdirectory. fsnotify
// does not watch subtrees on its own, and archive caches are typically
// many directories deep.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable directory: skip, don't abort the whole walk
		}
		if d.IsDir() {
			_ = fsw.Add(path)
		}
		return nil
	})
}
