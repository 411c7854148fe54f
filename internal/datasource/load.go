package datasource

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/marquee/pkg/debug"
	"github.com/vanderheijden86/marquee/pkg/loader"
	"github.com/vanderheijden86/marquee/pkg/metrics"
	"github.com/vanderheijden86/marquee/pkg/model"
)

// Load resolves path (file or directory) and reads its movies.
func Load(ctx context.Context, path string, opts loader.ParseOptions) (*model.Dataset, loader.Report, error) {
	src, err := Detect(path)
	if err != nil {
		return nil, loader.Report{}, err
	}
	return LoadFromSource(ctx, src, opts)
}

// LoadFromSource reads movies from src, dispatching on its type.
func LoadFromSource(ctx context.Context, src Source, opts loader.ParseOptions) (*model.Dataset, loader.Report, error) {
	switch src.Type {
	case SourceTypeJSONL:
		return loader.LoadFile(ctx, src.Path, opts)

	case SourceTypeSQLite:
		defer metrics.Timer(metrics.DatasetLoad)()
		reader, err := NewSQLiteReader(src)
		if err != nil {
			return nil, loader.Report{}, fmt.Errorf("failed to open SQLite source %s: %w", src.Path, err)
		}
		defer reader.Close()
		movies, rep, err := reader.LoadMovies(ctx, opts)
		if err != nil {
			return nil, rep, fmt.Errorf("%s: %w", src.Path, err)
		}
		debug.Log("datasource: %s: %d loaded, %d rejected", src.Path, rep.Loaded, len(rep.Rejected))
		return model.NewDataset(movies), rep, nil

	default:
		return nil, loader.Report{}, fmt.Errorf("unknown source type: %s", src.Type)
	}
}

// LoadAll reads several datasets concurrently and merges them. When a title
// appears in more than one, the earliest path in paths wins. Any failure
// cancels the remaining loads.
func LoadAll(ctx context.Context, paths []string, opts loader.ParseOptions) (*model.Dataset, []loader.Report, error) {
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no dataset paths given")
	}
	if len(paths) == 1 {
		ds, rep, err := Load(ctx, paths[0], opts)
		return ds, []loader.Report{rep}, err
	}

	results := make([]*model.Dataset, len(paths))
	reports := make([]loader.Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			ds, rep, err := Load(gctx, p, opts)
			reports[i] = rep
			if err != nil {
				return err
			}
			results[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, reports, err
	}

	var merged []model.Movie
	seen := make(map[string]bool)
	for i, ds := range results {
		for _, m := range ds.Movies {
			if seen[m.Title] {
				reports[i].Duplicates = append(reports[i].Duplicates, m.Title)
				continue
			}
			seen[m.Title] = true
			merged = append(merged, m)
		}
	}
	return model.NewDataset(merged), reports, nil
}
