// Package deals turns raw marktguru offers into comparable records
// and runs the multi-query aggregation pipeline over them.
package deals

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"flyerhunt/pkg/models"
)

const (
	OfferURLPrefix = "https://www.marktguru.de/offers/"

	placeholderName  = "Unknown product"
	placeholderStore = "Unknown store"
	placeholderPart  = "na"
	placeholderSize  = "-"
	placeholderDate  = "-"
)

// ToDeal maps one raw offer into a Deal. Best effort: missing or
// wrongly typed upstream fields degrade to placeholders or nils, never
// to an error.
func ToDeal(offer models.RawOffer, sourceQuery string) models.Deal {
	name := placeholderName
	if offer.Product != nil && offer.Product.Name != "" {
		name = offer.Product.Name
	}

	store := placeholderStore
	if len(offer.Advertisers) > 0 && offer.Advertisers[0].Name != "" {
		store = offer.Advertisers[0].Name
	}

	id, rawID := dealID(offer)

	var detailURL *string
	if digitsOnly(rawID) {
		u := OfferURLPrefix + rawID
		detailURL = &u
	}

	from, to := validity(offer.ValidityDates)

	return models.Deal{
		ID:            id,
		Name:          name,
		Description:   offer.Description,
		Store:         store,
		Price:         offer.Price,
		PricePerLitre: pricePerLitre(offer),
		ValidFrom:     from,
		ValidTo:       to,
		Query:         sourceQuery,
		Size:          sizeLabel(offer),
		URL:           detailURL,
	}
}

// pricePerLitre is the ranking key. When the upstream already ships a
// per-litre reference price (unit "l") that wins; otherwise it is
// price over total volume.
func pricePerLitre(offer models.RawOffer) *float64 {
	if offer.Unit != nil && strings.EqualFold(offer.Unit.ShortName, "l") && offer.ReferencePrice != nil {
		v := *offer.ReferencePrice
		return &v
	}

	if offer.Price == nil || offer.Volume == nil {
		return nil
	}
	quantity := 1.0
	if offer.Quantity != nil {
		quantity = *offer.Quantity
	}
	total := *offer.Volume * quantity
	if !(total > 0) || math.IsInf(total, 0) {
		return nil
	}
	v := *offer.Price / total
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func sizeLabel(offer models.RawOffer) string {
	if offer.Volume == nil {
		return placeholderSize
	}
	unit := "L"
	if offer.Unit != nil && offer.Unit.ShortName != "" {
		unit = offer.Unit.ShortName
	}
	label := formatNum(*offer.Volume) + unit
	if offer.Quantity != nil && *offer.Quantity > 1 {
		label = formatNum(*offer.Quantity) + "×" + label
	}
	return label
}

// dealID returns the deduplication key and the raw upstream id text
// (empty when the offer carried none). Offers without an id get a
// deterministic composite so re-aggregation stays idempotent.
func dealID(offer models.RawOffer) (id, rawID string) {
	rawID = idText(offer.ID)
	if rawID != "" {
		return rawID, rawID
	}

	name := placeholderPart
	if offer.Product != nil && offer.Product.Name != "" {
		name = offer.Product.Name
	}
	store := placeholderPart
	if len(offer.Advertisers) > 0 && offer.Advertisers[0].Name != "" {
		store = offer.Advertisers[0].Name
	}
	price := placeholderPart
	if offer.Price != nil {
		price = formatNum(*offer.Price)
	}
	desc := placeholderPart
	if offer.Description != "" {
		desc = offer.Description
	}
	return fmt.Sprintf("%s|%s|%s|%s", name, store, price, desc), ""
}

// idText coerces the raw id (JSON number or string) to trimmed text.
func idText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func validity(ranges []models.ValidityRange) (from, to string) {
	if len(ranges) == 0 {
		return placeholderDate, placeholderDate
	}
	return normalizeDate(ranges[0].From), normalizeDate(ranges[0].To)
}

// normalizeDate renders a parsable timestamp as a UTC calendar date
// and preserves anything else verbatim.
func normalizeDate(s string) string {
	if s == "" {
		return placeholderDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return s
}
