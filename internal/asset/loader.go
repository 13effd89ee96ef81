package asset

import (
	"context"
	"io/fs"

	"golang.org/x/sync/errgroup"
)

// Loader decodes sprites from a file system in background goroutines.
type Loader struct {
	fsys  fs.FS
	group *errgroup.Group
	ctx   context.Context
}

// NewLoader creates a loader bound to ctx; cancelling ctx abandons pending loads.
func NewLoader(ctx context.Context, fsys fs.FS) *Loader {
	group, gctx := errgroup.WithContext(ctx)
	return &Loader{fsys: fsys, group: group, ctx: gctx}
}

// Load returns a sprite immediately and decodes it in the background.
// The sprite reports Ready once decoding succeeds; on failure it never becomes ready
// and the error is returned from Wait.
func (l *Loader) Load(name string) *Sprite {
	s := &Sprite{name: name}
	l.group.Go(func() error {
		if err := l.ctx.Err(); err != nil {
			return err
		}
		f, err := l.fsys.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := s.decode(f); err != nil {
			return err
		}
		s.ready.Store(true)
		return nil
	})
	return s
}

// Wait blocks until every started load finishes and returns the first error.
func (l *Loader) Wait() error {
	return l.group.Wait()
}
