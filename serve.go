package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"flyerhunt/pkg/api"
	"flyerhunt/pkg/config"
	"flyerhunt/pkg/deals"
	"flyerhunt/pkg/models"
	"flyerhunt/pkg/render"

	scalargo "github.com/bdpiprava/scalar-go"
	"github.com/spf13/cobra"
)

var servePort string

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "9090", "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port n]",
	Short: "Expose the deal search as a local HTTP API with docs on /.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup := newClient(false)
		defer cleanup()

		handler := &searchHandler{
			prefs: config.NewStore(config.PrefsPath()).Load(),
			aggregate: func(ctx context.Context, queries []string, zip string, stores []string, limit int) (deals.Aggregation, error) {
				return deals.Aggregate(ctx, client, queries, zip, stores, limit)
			},
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/api/search", handler.ServeSearch)
		mux.HandleFunc("/", docsHandler)

		fmt.Printf("Access URL: http://localhost:%s\n", servePort)
		fmt.Printf("API Docs: http://localhost:%s/\n", servePort)

		server := &http.Server{
			Addr:              ":" + servePort,
			Handler:           mux,
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		return server.ListenAndServe()
	},
}

type aggregateFunc func(ctx context.Context, queries []string, zip string, stores []string, limit int) (deals.Aggregation, error)

type searchHandler struct {
	prefs     models.Preferences
	aggregate aggregateFunc
}

// ServeSearch answers GET /api/search?q=...&q=...&zip=...&stores=...&limit=...
// with the same JSON envelope the CLI prints under --json.
func (h *searchHandler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteBadRequest(w, "Method not allowed. Use GET.", r.URL.Path)
		return
	}

	params := r.URL.Query()
	queries := params["q"]
	if len(queries) == 0 {
		api.WriteBadRequest(w, "Missing query parameter q.", r.URL.Path)
		return
	}

	zip := params.Get("zip")
	if zip == "" {
		zip = h.prefs.DefaultZip
	}

	stores := h.prefs.DefaultStores
	if _, ok := params["stores"]; ok {
		stores = config.ParseList(params.Get("stores"))
	}

	limit := 20
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			api.WriteBadRequest(w, fmt.Sprintf("Invalid limit %q.", v), r.URL.Path)
			return
		}
		limit = n
	}

	agg, err := h.aggregate(r.Context(), queries, zip, stores, limit)
	if err != nil {
		log.Printf("search failed: %v", err)
		api.WriteFromError(w, err, r.URL.Path)
		return
	}

	results := agg.Deals
	if results == nil {
		results = []models.Deal{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(render.Envelope{
		Meta: render.Meta{
			Queries:         queries,
			ZipCode:         zip,
			Stores:          stores,
			TotalRawResults: agg.TotalRawResults,
			Returned:        len(results),
		},
		Results: results,
	}); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// docsHandler serves Scalar API docs generated from openapi.yaml.
func docsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		api.WriteNotFound(w, "Unknown path.", r.URL.Path)
		return
	}

	html, err := scalargo.NewV2(
		scalargo.WithSpecDir("./"),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("flyerhunt API"),
		),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}
