// Package watch keeps a page.Page in sync with HTML files on disk. The host
// page file is reloaded whenever it changes, and every <frame-id>.html in
// the frames directory is attached to the matching iframe.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/chatframe/internal/page"
	"github.com/dgallion1/chatframe/internal/telemetry"
)

// Reloader loads a host page file, and optionally a directory of frame
// documents, into a Page.
type Reloader struct {
	page      *page.Page
	pageFile  string
	framesDir string
	debounce  time.Duration
	log       *slog.Logger
}

func NewReloader(p *page.Page, pageFile, framesDir string, debounce time.Duration, log *slog.Logger) *Reloader {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Reloader{
		page:      p,
		pageFile:  pageFile,
		framesDir: framesDir,
		debounce:  debounce,
		log:       log,
	}
}

// Load reads the host page and attaches the frame documents. Frame files
// with no matching iframe are skipped.
func (r *Reloader) Load() (page.Revision, error) {
	f, err := os.Open(r.pageFile)
	if err != nil {
		return page.Revision{}, fmt.Errorf("open page file: %w", err)
	}
	rev, err := r.page.LoadHost(f)
	f.Close()
	if err != nil {
		return page.Revision{}, fmt.Errorf("load page file %s: %w", r.pageFile, err)
	}
	telemetry.ObservePageLoad("host", len(rev.Frames))

	if r.framesDir == "" {
		return rev, nil
	}
	entries, err := os.ReadDir(r.framesDir)
	if err != nil {
		return rev, fmt.Errorf("read frames dir: %w", err)
	}
	for _, e := range entries {
		id, ok := frameID(e.Name())
		if !ok || e.IsDir() {
			continue
		}
		next, err := r.attach(id, filepath.Join(r.framesDir, e.Name()))
		if errors.Is(err, page.ErrFrameNotFound) {
			r.log.Debug("frame file has no iframe", "frame", id)
			continue
		}
		if err != nil {
			return rev, err
		}
		rev = next
	}
	return rev, nil
}

func (r *Reloader) attach(id, path string) (page.Revision, error) {
	f, err := os.Open(path)
	if err != nil {
		return page.Revision{}, fmt.Errorf("open frame file: %w", err)
	}
	defer f.Close()
	rev, err := r.page.AttachFrame(id, f)
	if err != nil {
		return page.Revision{}, err
	}
	telemetry.ObservePageLoad("frame", len(rev.Frames))
	return rev, nil
}

// Run watches the page file and frames directory until ctx is done,
// reloading after each burst of changes. Parent directories are watched so
// editors that replace files by rename are seen.
func (r *Reloader) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	pageDir := filepath.Dir(r.pageFile)
	if err := w.Add(pageDir); err != nil {
		return fmt.Errorf("watch %s: %w", pageDir, err)
	}
	if r.framesDir != "" && filepath.Clean(r.framesDir) != filepath.Clean(pageDir) {
		if err := w.Add(r.framesDir); err != nil {
			return fmt.Errorf("watch %s: %w", r.framesDir, err)
		}
	}

	timer := time.NewTimer(r.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !r.relevant(ev) {
				continue
			}
			timer.Reset(r.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("watcher error", "error", err)
		case <-timer.C:
			rev, err := r.Load()
			if err != nil {
				r.log.Warn("page reload failed", "error", err)
				continue
			}
			r.log.Info("page reloaded", "revision", rev.ID, "frames", len(rev.Frames), "bytes", rev.HostBytes)
		}
	}
}

func (r *Reloader) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	if filepath.Clean(ev.Name) == filepath.Clean(r.pageFile) {
		return true
	}
	if r.framesDir != "" && filepath.Clean(filepath.Dir(ev.Name)) == filepath.Clean(r.framesDir) {
		_, ok := frameID(filepath.Base(ev.Name))
		return ok
	}
	return false
}

func frameID(name string) (string, bool) {
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, ".html") && !strings.EqualFold(ext, ".htm") {
		return "", false
	}
	id := strings.TrimSuffix(name, ext)
	return id, id != ""
}
