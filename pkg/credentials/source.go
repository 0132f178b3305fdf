// Package credentials obtains the ephemeral API key pair required by
// the marktguru search endpoint. The keys are not documented anywhere;
// the homepage embeds them in a JSON config block, so fetching them is
// a scraping job with a file cache in front.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"flyerhunt/pkg/models"

	"github.com/gocolly/colly/v2"
)

const (
	DefaultHomepage = "https://www.marktguru.de/"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// Source yields a fresh key pair. Implementations differ only in how
// they get at the homepage markup.
type Source interface {
	FetchPair(ctx context.Context) (models.Pair, error)
}

// embeddedConfig is the shape of the homepage script block that
// carries the keys. Blocks that do not match simply decode to zero
// values and are skipped.
type embeddedConfig struct {
	Config struct {
		APIKey    string `json:"apiKey"`
		ClientKey string `json:"clientKey"`
	} `json:"config"`
}

func pairFromScript(text string) (models.Pair, bool) {
	var cfg embeddedConfig
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &cfg); err != nil {
		// Malformed blocks are expected, the page embeds several.
		return models.Pair{}, false
	}
	if cfg.Config.APIKey == "" || cfg.Config.ClientKey == "" {
		return models.Pair{}, false
	}
	return models.Pair{APIKey: cfg.Config.APIKey, ClientKey: cfg.Config.ClientKey}, true
}

// StaticSource scans the served HTML for script blocks declared as
// application/json and takes the first one carrying both keys.
type StaticSource struct {
	Homepage string
}

func NewStaticSource(homepage string) *StaticSource {
	if homepage == "" {
		homepage = DefaultHomepage
	}
	return &StaticSource{Homepage: homepage}
}

func (s *StaticSource) FetchPair(ctx context.Context) (models.Pair, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
	)
	c.SetRequestTimeout(30 * time.Second)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html")
	})

	var pair models.Pair
	c.OnHTML(`script[type="application/json"]`, func(e *colly.HTMLElement) {
		if pair.Valid() {
			return
		}
		if p, ok := pairFromScript(e.Text); ok {
			pair = p
		}
	})

	if err := c.Visit(s.Homepage); err != nil {
		return models.Pair{}, &models.CredentialError{Msg: "failed to fetch homepage", Err: err}
	}
	if !pair.Valid() {
		return models.Pair{}, &models.CredentialError{
			Msg: fmt.Sprintf("no embedded JSON block on %s contains both apiKey and clientKey", s.Homepage),
		}
	}
	return pair, nil
}
