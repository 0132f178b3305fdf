package credentials

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"flyerhunt/pkg/models"
)

// TTL is how long a scraped key pair is trusted before a fresh scrape
// is forced.
const TTL = 6 * time.Hour

// Resolver answers credential lookups cache-first and falls back to
// its Source. A fresh-fetch sequence that fails is retried exactly
// once before the original error surfaces.
type Resolver struct {
	CacheFile string
	Source    Source
	TTL       time.Duration

	// Now is swappable for TTL tests.
	Now func() time.Time
}

func NewResolver(cacheFile string, src Source) *Resolver {
	return &Resolver{
		CacheFile: cacheFile,
		Source:    src,
		TTL:       TTL,
		Now:       time.Now,
	}
}

func (r *Resolver) Resolve(ctx context.Context, forceRefresh bool) (models.Pair, error) {
	if !forceRefresh {
		if pair, ok := r.cached(); ok {
			return pair, nil
		}
	}
	return r.fetchFresh(ctx)
}

func (r *Resolver) cached() (models.Pair, bool) {
	data, err := os.ReadFile(r.CacheFile)
	if err != nil {
		return models.Pair{}, false
	}
	var pair models.Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return models.Pair{}, false
	}
	if !pair.Valid() || pair.Age(r.Now()) >= r.TTL {
		return models.Pair{}, false
	}
	return pair, true
}

func (r *Resolver) fetchFresh(ctx context.Context) (models.Pair, error) {
	pair, err := r.Source.FetchPair(ctx)
	if err != nil {
		// One more attempt guards against a transient homepage
		// failure; the first error wins if both fail.
		retried, retryErr := r.Source.FetchPair(ctx)
		if retryErr != nil {
			return models.Pair{}, err
		}
		pair = retried
	}

	pair.FetchedAt = r.Now().UnixMilli()
	r.persist(pair)
	return pair, nil
}

func (r *Resolver) persist(pair models.Pair) {
	if err := os.MkdirAll(filepath.Dir(r.CacheFile), 0o755); err != nil {
		log.Printf("credentials: failed to create cache dir: %v", err)
		return
	}
	data, err := json.MarshalIndent(pair, "", "  ")
	if err != nil {
		log.Printf("credentials: failed to marshal pair: %v", err)
		return
	}
	if err := os.WriteFile(r.CacheFile, data, 0o600); err != nil {
		log.Printf("credentials: failed to write cache file: %v", err)
	}
}
