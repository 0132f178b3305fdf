package models

import (
	"encoding/json"
	"time"
)

// Pair holds the two tokens required by the marktguru search API.
// Both are scraped from the homepage and expire server-side, so a
// capture timestamp travels with them.
type Pair struct {
	APIKey    string `json:"apiKey"`
	ClientKey string `json:"clientKey"`
	FetchedAt int64  `json:"fetchedAt"` // epoch millis
}

func (p Pair) Valid() bool {
	return p.APIKey != "" && p.ClientKey != ""
}

func (p Pair) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(p.FetchedAt))
}

// RawOffer mirrors one flyer entry as the upstream API returns it.
// Every field is optional and untrusted; the id can arrive as a number
// or a string, so it is kept raw until coercion.
type RawOffer struct {
	ID             json.RawMessage `json:"id,omitempty"`
	Product        *Product        `json:"product,omitempty"`
	Advertisers    []Advertiser    `json:"advertisers,omitempty"`
	Price          *float64        `json:"price,omitempty"`
	ReferencePrice *float64        `json:"referencePrice,omitempty"`
	Description    string          `json:"description,omitempty"`
	Volume         *float64        `json:"volume,omitempty"`
	Quantity       *float64        `json:"quantity,omitempty"`
	Unit           *Unit           `json:"unit,omitempty"`
	ValidityDates  []ValidityRange `json:"validityDates,omitempty"`
}

type Product struct {
	Name string `json:"name"`
}

type Advertiser struct {
	Name string `json:"name"`
}

type Unit struct {
	ShortName string `json:"shortName"`
}

type ValidityRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Deal is the normalized record derived from exactly one RawOffer.
// ID is the deduplication key across merged query results.
type Deal struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Store         string   `json:"store"`
	Price         *float64 `json:"price"`
	PricePerLitre *float64 `json:"pricePerLitre"`
	ValidFrom     string   `json:"validFrom"`
	ValidTo       string   `json:"validTo"`
	Query         string   `json:"query"`
	Size          string   `json:"size"`
	URL           *string  `json:"url"`
}

// Preferences persist across invocations in the user config file.
type Preferences struct {
	DefaultZip    string   `json:"defaultZip"`
	DefaultStores []string `json:"defaultStores"`
}
