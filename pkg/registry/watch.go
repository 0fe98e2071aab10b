package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

const watchDebounce = 300 * time.Millisecond

// changeSet collects changed paths between deliveries.
type changeSet struct {
	mu      sync.Mutex
	pending map[string]struct{}
	ready   chan struct{}
}

func (c *changeSet) add(path string) {
	c.mu.Lock()
	c.pending[path] = struct{}{}
	c.mu.Unlock()
}

// signal marks the set as ready without blocking; one pending signal is
// enough since delivery drains everything collected so far.
func (c *changeSet) signal() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}

func (c *changeSet) take() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := make([]string, 0, len(c.pending))
	for p := range c.pending {
		changed = append(changed, p)
	}
	clear(c.pending)
	sort.Strings(changed)
	return changed
}

// Watch invalidates the snapshot whenever a supported archive changes in
// either mod folder and then calls onChange with the changed paths. Calls
// to onChange never overlap: changes seen while one runs are delivered in
// the next call. Watch blocks until ctx is cancelled and returns only after
// a running onChange has finished. The folders must be on the real
// filesystem.
func (r *Registry) Watch(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	if err := r.EnsureFolders(); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create folder watcher")
	}
	defer func() { _ = fsw.Close() }()

	for _, dir := range []string{r.paths.EnabledDir(), r.paths.DisabledDir()} {
		if err := fsw.Add(dir); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to watch %s", dir)
		}
	}

	changes := &changeSet{pending: map[string]struct{}{}, ready: make(chan struct{}, 1)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.deliver(gctx, changes, onChange)
		return nil
	})
	g.Go(func() error {
		return r.collect(gctx, fsw, changes)
	})
	return g.Wait()
}

// collect debounces watcher events into changes.
func (r *Registry) collect(ctx context.Context, fsw *fsnotify.Watcher, changes *changeSet) error {
	var flush <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-flush:
			flush = nil
			changes.signal()

		case evt, ok := <-fsw.Events:
			if !ok {
				return errors.New(errors.ErrInternal, "folder watcher closed unexpectedly")
			}
			if !types.IsSupported(evt.Name) || evt.Op == fsnotify.Chmod {
				continue
			}
			changes.add(evt.Name)
			flush = time.After(watchDebounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New(errors.ErrInternal, "folder watcher closed unexpectedly")
			}
			r.logger.Warn().Err(err).Msg("Folder watcher error")
		}
	}
}

// deliver runs onChange for each ready batch, one at a time.
func (r *Registry) deliver(ctx context.Context, changes *changeSet, onChange func(ctx context.Context, changed []string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes.ready:
		}
		if ctx.Err() != nil {
			return
		}

		changed := changes.take()
		if len(changed) == 0 {
			continue
		}
		r.Invalidate()
		r.logger.Debug().Strs("changed", changed).Msg("Mod folders changed")
		if onChange != nil {
			onChange(ctx, changed)
		}
	}
}
