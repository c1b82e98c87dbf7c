package history

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultPruneJobs is the number of concurrent checks Prune runs when no
// limit is given.
const DefaultPruneJobs = 4

// Checker reports whether the server still has the file of an entry.
type Checker interface {
	Exists(ctx context.Context, e Entry) (bool, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, e Entry) (bool, error)

func (f CheckerFunc) Exists(ctx context.Context, e Entry) (bool, error) {
	return f(ctx, e)
}

// Prune asks checker about every entry, running at most jobs checks at a
// time, and removes the entries whose files are gone. The first check
// error aborts the run before anything is removed.
func (s *Store) Prune(ctx context.Context, checker Checker, jobs int) ([]Entry, error) {
	if jobs <= 0 {
		jobs = DefaultPruneJobs
	}

	entries, err := s.List()
	if err != nil {
		return nil, err
	}

	gone := make([]bool, len(entries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, e := range entries {
		g.Go(func() error {
			exists, err := checker.Exists(gctx, e)
			if err != nil {
				return fmt.Errorf("failed to check %s: %w", e.ID, err)
			}
			if !exists {
				mu.Lock()
				gone[i] = true
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var removed []Entry
	for i, e := range entries {
		if !gone[i] {
			continue
		}
		if _, err := s.Remove(e.ID); err != nil {
			return removed, err
		}
		removed = append(removed, e)
	}
	s.logger.Debug("history pruned", zap.Int("checked", len(entries)), zap.Int("removed", len(removed)))
	return removed, nil
}
