package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"flyerhunt/pkg/cache"
	"flyerhunt/pkg/config"
	"flyerhunt/pkg/credentials"
	"flyerhunt/pkg/marktguru"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var useBrowser bool

var rootCmd = &cobra.Command{
	Use:   "flyerhunt",
	Short: "flyerhunt finds grocery flyer deals and ranks them by unit price (EUR/L).",
	Long: `flyerhunt queries the marktguru flyer aggregator for grocery discounts,
normalizes the offers and ranks them by price per litre. API credentials
are scraped from the homepage and cached for 6 hours.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&useBrowser, "browser", false,
		"scrape API credentials with headless Chrome instead of the static page")
}

func main() {
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newClient wires the shared pipeline: credential resolver (static or
// browser source), sqlite response cache and the search client.
// The returned cleanup closes the cache.
func newClient(skipCache bool) (*marktguru.Client, func()) {
	var src credentials.Source
	homepage := os.Getenv("MARKTGURU_HOMEPAGE_URL")
	if useBrowser {
		src = credentials.NewBrowserSource(homepage)
	} else {
		src = credentials.NewStaticSource(homepage)
	}
	resolver := credentials.NewResolver(config.CredentialsPath(), src)

	ttl := 30 * time.Minute
	if val := os.Getenv("CACHE_TTL_MINUTES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			ttl = time.Duration(parsed) * time.Minute
		}
	}

	var respCache *cache.Cache
	if err := os.MkdirAll(config.Dir(), 0o755); err != nil {
		log.Printf("response cache disabled: %v", err)
	} else if respCache, err = cache.New(config.CacheDBPath(), ttl); err != nil {
		log.Printf("response cache disabled: %v", err)
		respCache = nil
	}

	client := marktguru.NewClient(os.Getenv("MARKTGURU_BASE_URL"), resolver, respCache)
	client.SkipCache = skipCache

	return client, func() { respCache.Close() }
}
