package credentials

import (
	"context"
	"time"

	"flyerhunt/pkg/models"

	"github.com/chromedp/chromedp"
)

// BrowserSource renders the homepage in headless Chrome before
// scanning for the config block. Fallback for when the static page
// stops shipping the keys in the initial HTML.
type BrowserSource struct {
	Homepage string
}

func NewBrowserSource(homepage string) *BrowserSource {
	if homepage == "" {
		homepage = DefaultHomepage
	}
	return &BrowserSource{Homepage: homepage}
}

func (s *BrowserSource) FetchPair(ctx context.Context) (models.Pair, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	fetchCtx, cancelFetch := context.WithTimeout(browserCtx, 45*time.Second)
	defer cancelFetch()

	var blocks []string
	err := chromedp.Run(fetchCtx,
		chromedp.Navigate(s.Homepage),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Evaluate(`
			(function() {
				const out = [];
				for (const s of document.querySelectorAll('script[type="application/json"]')) {
					out.push(s.innerText);
				}
				return out;
			})()
		`, &blocks),
	)
	if err != nil {
		return models.Pair{}, &models.CredentialError{Msg: "headless fetch of homepage failed", Err: err}
	}

	for _, text := range blocks {
		if pair, ok := pairFromScript(text); ok {
			return pair, nil
		}
	}
	return models.Pair{}, &models.CredentialError{
		Msg: "no embedded JSON block contains both apiKey and clientKey (browser)",
	}
}
