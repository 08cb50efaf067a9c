package countries

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

// fetchMany runs one ByName lookup per term with bounded concurrency and
// merges the results in term order, dropping countries already seen by name.
// A term with no match contributes nothing; any other failure aborts the batch.
func fetchMany(ctx context.Context, src Source, terms []string, workers int) ([]model.CountryRecord, error) {
	if workers <= 0 {
		workers = 4
	}
	results := make([][]model.CountryRecord, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			recs, err := src.ByName(gctx, term)
			if err != nil {
				if isNotFound(err) {
					return nil
				}
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var merged []model.CountryRecord
	for _, recs := range results {
		for _, rec := range recs {
			key := strings.ToLower(rec.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, rec)
		}
	}
	return merged, nil
}
