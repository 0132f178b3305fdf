package deals

import (
	"encoding/json"
	"testing"

	"flyerhunt/pkg/models"

	"github.com/stretchr/testify/require"
)

func fptr(f float64) *float64 { return &f }

func TestPricePerLitre(t *testing.T) {
	tests := []struct {
		name  string
		offer models.RawOffer
		want  *float64
	}{
		{
			name:  "price over volume",
			offer: models.RawOffer{Price: fptr(1.29), Volume: fptr(2), Quantity: fptr(1)},
			want:  fptr(0.645),
		},
		{
			name: "upstream reference price wins for unit l",
			offer: models.RawOffer{
				Unit:           &models.Unit{ShortName: "l"},
				ReferencePrice: fptr(0.65),
				Price:          fptr(99),
				Volume:         fptr(5),
			},
			want: fptr(0.65),
		},
		{
			name: "reference price unit is case-insensitive",
			offer: models.RawOffer{
				Unit:           &models.Unit{ShortName: "L"},
				ReferencePrice: fptr(1.10),
			},
			want: fptr(1.10),
		},
		{
			name:  "zero volume is unusable",
			offer: models.RawOffer{Price: fptr(1.0), Volume: fptr(0)},
			want:  nil,
		},
		{
			name:  "negative volume is unusable",
			offer: models.RawOffer{Price: fptr(1.0), Volume: fptr(-2)},
			want:  nil,
		},
		{
			name:  "missing price",
			offer: models.RawOffer{Volume: fptr(2)},
			want:  nil,
		},
		{
			name:  "missing volume",
			offer: models.RawOffer{Price: fptr(1.5)},
			want:  nil,
		},
		{
			name:  "quantity defaults to one",
			offer: models.RawOffer{Price: fptr(2), Volume: fptr(1)},
			want:  fptr(2),
		},
		{
			name:  "quantity multiplies volume",
			offer: models.RawOffer{Price: fptr(3), Volume: fptr(0.5), Quantity: fptr(6)},
			want:  fptr(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deal := ToDeal(tt.offer, "test")
			if tt.want == nil {
				require.Nil(t, deal.PricePerLitre)
				return
			}
			require.NotNil(t, deal.PricePerLitre)
			require.InDelta(t, *tt.want, *deal.PricePerLitre, 1e-9)
		})
	}
}

func TestDetailURL(t *testing.T) {
	numeric := ToDeal(models.RawOffer{ID: json.RawMessage(`21916812`)}, "q")
	require.Equal(t, "21916812", numeric.ID)
	require.NotNil(t, numeric.URL)
	require.Equal(t, "https://www.marktguru.de/offers/21916812", *numeric.URL)

	quoted := ToDeal(models.RawOffer{ID: json.RawMessage(`"21916812"`)}, "q")
	require.NotNil(t, quoted.URL)
	require.Equal(t, "https://www.marktguru.de/offers/21916812", *quoted.URL)

	// Injected ids are rejected outright, not sanitized and kept.
	injected := ToDeal(models.RawOffer{ID: json.RawMessage(`"21916812; DROP"`)}, "q")
	require.Equal(t, "21916812; DROP", injected.ID)
	require.Nil(t, injected.URL)
}

func TestCompositeID(t *testing.T) {
	offer := models.RawOffer{
		Product:     &models.Product{Name: "Milch"},
		Advertisers: []models.Advertiser{{Name: "REWE"}},
		Price:       fptr(1.29),
	}
	deal := ToDeal(offer, "milch")
	require.Equal(t, "Milch|REWE|1.29|na", deal.ID)
	require.Nil(t, deal.URL)

	// Deterministic: same offer, same key.
	require.Equal(t, deal.ID, ToDeal(offer, "other").ID)

	empty := ToDeal(models.RawOffer{}, "q")
	require.Equal(t, "na|na|na|na", empty.ID)
}

func TestPlaceholders(t *testing.T) {
	deal := ToDeal(models.RawOffer{}, "q")
	require.Equal(t, "Unknown product", deal.Name)
	require.Equal(t, "Unknown store", deal.Store)
	require.Equal(t, "-", deal.Size)
	require.Equal(t, "-", deal.ValidFrom)
	require.Equal(t, "-", deal.ValidTo)
	require.Nil(t, deal.Price)
	require.Equal(t, "q", deal.Query)
}

func TestSizeLabel(t *testing.T) {
	single := ToDeal(models.RawOffer{Volume: fptr(2)}, "q")
	require.Equal(t, "2L", single.Size)

	multi := ToDeal(models.RawOffer{
		Volume:   fptr(0.75),
		Quantity: fptr(2),
		Unit:     &models.Unit{ShortName: "l"},
	}, "q")
	require.Equal(t, "2×0.75l", multi.Size)
}

func TestDateNormalization(t *testing.T) {
	deal := ToDeal(models.RawOffer{
		ValidityDates: []models.ValidityRange{{
			From: "2024-05-01T00:00:00Z",
			To:   "2024-05-08T00:00:00+02:00",
		}},
	}, "q")
	require.Equal(t, "2024-05-01", deal.ValidFrom)
	// Rendered in UTC, so the +02:00 midnight lands on the previous day.
	require.Equal(t, "2024-05-07", deal.ValidTo)

	verbatim := ToDeal(models.RawOffer{
		ValidityDates: []models.ValidityRange{{From: "demnächst", To: ""}},
	}, "q")
	require.Equal(t, "demnächst", verbatim.ValidFrom)
	require.Equal(t, "-", verbatim.ValidTo)
}
