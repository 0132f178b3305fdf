package render

import (
	"encoding/json"
	"io"

	"flyerhunt/pkg/models"
)

// Meta describes how the result set was produced.
type Meta struct {
	Queries         []string `json:"queries"`
	ZipCode         string   `json:"zipCode"`
	Stores          []string `json:"stores"`
	TotalRawResults int      `json:"totalRawResults"`
	Returned        int      `json:"returned"`
}

type Envelope struct {
	Meta    Meta          `json:"meta"`
	Results []models.Deal `json:"results"`
}

// JSON writes the pretty-printed envelope consumed by the downstream
// filtering agent.
func JSON(w io.Writer, meta Meta, deals []models.Deal) error {
	if deals == nil {
		deals = []models.Deal{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Envelope{Meta: meta, Results: deals})
}
