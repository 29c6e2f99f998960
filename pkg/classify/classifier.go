// Package classify splits the images under a search root into geotagged and
// untagged sets by querying the metadata tool.
package classify

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/geotagsync/pkg/logging"
	"github.com/sdejongh/geotagsync/pkg/metadata"
	"github.com/sdejongh/geotagsync/pkg/models"
	"github.com/sdejongh/geotagsync/pkg/storage"
)

// Options configures a Classifier
type Options struct {
	// Recursive descends into subdirectories of the root
	Recursive bool
	// Exclude lists patterns matched against paths relative to the root
	Exclude []string
	Logger  logging.Logger
}

// DefaultOptions returns a recursive scan with no exclusions
func DefaultOptions() Options {
	return Options{Recursive: true}
}

// Classifier runs the two presence queries and normalizes their results
type Classifier struct {
	querier   metadata.Querier
	recursive bool
	exclude   *ExcludeMatcher
	logger    logging.Logger
}

// New creates a Classifier backed by querier
func New(querier metadata.Querier, opts Options) *Classifier {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Classifier{
		querier:   querier,
		recursive: opts.Recursive,
		exclude:   NewExcludeMatcher(opts.Exclude),
		logger:    logger,
	}
}

// Classify returns the sorted, disjoint sets of files under root with and
// without a GPS latitude.
func (c *Classifier) Classify(ctx context.Context, root string) (models.ClassifiedFileSet, error) {
	backend, err := storage.NewLocal(root)
	if err != nil {
		return models.ClassifiedFileSet{}, err
	}
	backend.Close()

	c.logger.Debug(ctx, "Starting classification", logging.Fields{
		"root":      root,
		"recursive": c.recursive,
	})

	var with, without []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		paths, err := c.query(gctx, root, metadata.HasGPSLatitude)
		with = paths
		return err
	})
	g.Go(func() error {
		paths, err := c.query(gctx, root, metadata.LacksGPSLatitude)
		without = paths
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ClassifiedFileSet{}, err
	}

	set := models.NewClassifiedFileSet(c.filter(ctx, root, with), c.filter(ctx, root, without))

	c.logger.Info(ctx, "Classification complete", logging.Fields{
		"root":           root,
		"with_geotag":    len(set.WithGeotag),
		"without_geotag": len(set.WithoutGeotag),
	})
	return set, nil
}

func (c *Classifier) query(ctx context.Context, root string, p metadata.Predicate) ([]string, error) {
	paths, err := c.querier.Query(ctx, metadata.Query{
		Root:      root,
		Predicate: p,
		Recursive: c.recursive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", p.Name, err)
	}
	return paths, nil
}

func (c *Classifier) filter(ctx context.Context, root string, paths []string) []string {
	if c.exclude.Empty() {
		return paths
	}

	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		if c.exclude.Match(rel) {
			c.logger.Debug(ctx, "Excluded file", logging.Fields{"path": p})
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
