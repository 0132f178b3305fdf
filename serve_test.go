package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flyerhunt/pkg/api"
	"flyerhunt/pkg/deals"
	"flyerhunt/pkg/models"
	"flyerhunt/pkg/render"

	"github.com/stretchr/testify/require"
)

func newHandler(aggregate aggregateFunc) *searchHandler {
	return &searchHandler{
		prefs: models.Preferences{
			DefaultZip:    "10115",
			DefaultStores: []string{"REWE"},
		},
		aggregate: aggregate,
	}
}

func TestServeSearchBadRequests(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		expectedStatus int
		expectedDetail string
	}{
		{
			name:           "missing query",
			method:         http.MethodGet,
			target:         "/api/search",
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Missing query parameter q.",
		},
		{
			name:           "non-numeric limit",
			method:         http.MethodGet,
			target:         "/api/search?q=milch&limit=abc",
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Invalid limit",
		},
		{
			name:           "wrong method",
			method:         http.MethodPost,
			target:         "/api/search?q=milch",
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Method not allowed",
		},
	}

	handler := newHandler(func(ctx context.Context, queries []string, zip string, stores []string, limit int) (deals.Aggregation, error) {
		t.Fatal("aggregate must not be called for bad requests")
		return deals.Aggregation{}, nil
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rr := httptest.NewRecorder()

			handler.ServeSearch(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)
			require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

			var pd api.ProblemDetails
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pd))
			require.Equal(t, tt.expectedStatus, pd.Status)
			require.Contains(t, pd.Detail, tt.expectedDetail)
		})
	}
}

func TestServeSearchErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"validation", &models.ValidationError{Msg: "limit 0 outside [1, 100]"}, http.StatusBadRequest},
		{"upstream", &models.UpstreamError{Status: 500, Body: "boom"}, http.StatusBadGateway},
		{"credential", &models.CredentialError{Msg: "no keys"}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newHandler(func(ctx context.Context, queries []string, zip string, stores []string, limit int) (deals.Aggregation, error) {
				return deals.Aggregation{}, tt.err
			})

			req := httptest.NewRequest(http.MethodGet, "/api/search?q=milch", nil)
			rr := httptest.NewRecorder()
			handler.ServeSearch(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestServeSearchSuccess(t *testing.T) {
	var gotQueries []string
	var gotZip string
	var gotStores []string
	var gotLimit int

	handler := newHandler(func(ctx context.Context, queries []string, zip string, stores []string, limit int) (deals.Aggregation, error) {
		gotQueries, gotZip, gotStores, gotLimit = queries, zip, stores, limit
		return deals.Aggregation{
			Deals:           []models.Deal{{ID: "1", Name: "Vollmilch", Store: "REWE"}},
			TotalRawResults: 7,
		}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=milch&q=butter&zip=80331&stores=lidl,aldi&limit=5", nil)
	rr := httptest.NewRecorder()
	handler.ServeSearch(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, []string{"milch", "butter"}, gotQueries)
	require.Equal(t, "80331", gotZip)
	require.Equal(t, []string{"lidl", "aldi"}, gotStores)
	require.Equal(t, 5, gotLimit)

	var env render.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, 7, env.Meta.TotalRawResults)
	require.Equal(t, 1, env.Meta.Returned)
	require.Len(t, env.Results, 1)
}

func TestServeSearchFallsBackToPreferences(t *testing.T) {
	handler := newHandler(func(ctx context.Context, queries []string, zip string, stores []string, limit int) (deals.Aggregation, error) {
		require.Equal(t, "10115", zip)
		require.Equal(t, []string{"REWE"}, stores)
		require.Equal(t, 20, limit)
		return deals.Aggregation{}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=milch", nil)
	rr := httptest.NewRecorder()
	handler.ServeSearch(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	// Empty result set still serializes as an array.
	require.True(t, strings.Contains(rr.Body.String(), `"results":[]`))
}
