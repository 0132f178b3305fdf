package deals

import (
	"context"
	"sort"
	"strings"

	"flyerhunt/pkg/marktguru"
	"flyerhunt/pkg/models"
)

// Searcher is satisfied by marktguru.Client.
type Searcher interface {
	Search(ctx context.Context, query, zip string, limit int) (marktguru.SearchResult, error)
}

type Aggregation struct {
	Deals           []models.Deal
	TotalRawResults int
}

// Aggregate runs every query in order, merges and deduplicates the
// normalized offers, applies the store filter, ranks by price per
// litre and truncates to limit. Each query over-fetches at twice the
// limit (capped at the API maximum) so filtering and deduplication do
// not starve the final list. The first failing query aborts the whole
// aggregation.
//
// Ordering is deterministic: the sort is stable, so deals sharing a
// price per litre — and all deals without one, which sort last — keep
// their post-deduplication order (query order, then upstream order).
func Aggregate(ctx context.Context, s Searcher, queries []string, zip string, storeFilter []string, limit int) (Aggregation, error) {
	fetchLimit := limit * 2
	if fetchLimit > marktguru.MaxLimit {
		fetchLimit = marktguru.MaxLimit
	}

	var merged []models.Deal
	total := 0
	for _, query := range queries {
		res, err := s.Search(ctx, query, zip, fetchLimit)
		if err != nil {
			return Aggregation{}, err
		}
		total += res.TotalResults
		for _, offer := range res.Results {
			merged = append(merged, ToDeal(offer, query))
		}
	}

	merged = dedupe(merged)

	if len(storeFilter) > 0 {
		merged = filterStores(merged, storeFilter)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i].PricePerLitre, merged[j].PricePerLitre
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}

	return Aggregation{Deals: merged, TotalRawResults: total}, nil
}

// dedupe keeps the first occurrence per deal ID, so earlier queries
// win ties.
func dedupe(in []models.Deal) []models.Deal {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, d := range in {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return out
}

func filterStores(in []models.Deal, terms []string) []models.Deal {
	var out []models.Deal
	for _, d := range in {
		store := strings.ToLower(d.Store)
		for _, term := range terms {
			if term != "" && strings.Contains(store, strings.ToLower(term)) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
