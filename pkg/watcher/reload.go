package watcher

import (
	"context"
	"fmt"

	"github.com/vanderheijden86/marquee/pkg/debug"
	"github.com/vanderheijden86/marquee/pkg/model"
)

// LoadFunc reads a dataset from path.
type LoadFunc func(ctx context.Context, path string) (*model.Dataset, error)

// Reloader re-reads the dataset whenever the watcher reports a change and
// hands the result to apply. A failed reload leaves the current dataset in
// place and is reported to onError.
type Reloader struct {
	*Watcher

	ctx     context.Context
	load    LoadFunc
	apply   func(*model.Dataset)
	onError func(error)
}

// WatchDataset starts a Reloader for path.
func WatchDataset(ctx context.Context, path string, load LoadFunc, apply func(*model.Dataset), onError func(error), opts ...Option) (*Reloader, error) {
	if onError == nil {
		onError = func(error) {}
	}
	r := &Reloader{ctx: ctx, load: load, apply: apply, onError: onError}
	opts = append(opts, WithOnChange(r.reload), WithOnError(onError))
	w, err := New(path, opts...)
	if err != nil {
		return nil, err
	}
	r.Watcher = w
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reloader) reload() {
	ds, err := r.load(r.ctx, r.path)
	if err != nil {
		r.onError(fmt.Errorf("reloading %s: %w", r.path, err))
		return
	}
	debug.Log("watcher: reloaded %d movies from %s", ds.Len(), r.path)
	r.apply(ds)
}
