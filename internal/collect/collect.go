// Package collect loads and normalizes source exports from disk.
package collect

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/scholarly-tools/pubmerge/internal/normalize"
	"github.com/scholarly-tools/pubmerge/internal/publication"
	"github.com/scholarly-tools/pubmerge/internal/storage"
)

// MaxConcurrentLoads bounds how many exports are read at once.
const MaxConcurrentLoads = 4

// SourceFile locates one source's raw export.
type SourceFile struct {
	Source publication.Source
	Path   string
}

// Load reads and normalizes every export concurrently.
//
// A source that fails to load is reported in the returned errors and left
// out of the map; the remaining sources are still loaded. The result is only
// handed to the merge engine once every load has finished.
func Load(ctx context.Context, files []SourceFile, logger zerolog.Logger) (map[publication.Source][]publication.SourceRecord, []error) {
	var (
		mu      sync.Mutex
		records = make(map[publication.Source][]publication.SourceRecord, len(files))
		errs    = make([]error, len(files))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentLoads)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = fmt.Errorf("%s: %w", f.Source, err)
				return nil
			}
			recs, err := loadOne(f, logger)
			if err != nil {
				errs[i] = err
				return nil
			}
			mu.Lock()
			records[f.Source] = recs
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // goroutines report through errs

	var failed []error
	for i, err := range errs {
		if err != nil {
			logger.Warn().Err(err).Str("source", string(files[i].Source)).Str("path", files[i].Path).Msg("source not loaded")
			failed = append(failed, err)
		}
	}
	return records, failed
}

func loadOne(f SourceFile, logger zerolog.Logger) ([]publication.SourceRecord, error) {
	n, err := normalize.For(f.Source)
	if err != nil {
		return nil, err
	}

	raws, err := storage.ReadRaw(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Source, err)
	}

	recs, dropped := normalize.Records(n, raws, logger)
	logger.Info().
		Str("source", string(f.Source)).
		Str("path", f.Path).
		Int("records", len(recs)).
		Int("dropped", dropped).
		Msg("loaded source export")
	return recs, nil
}
