package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/apeksha07/insurance-advisor/internal/plans"
)

type stubScorer struct {
	scores []plans.Score
	err    error
}

func (s stubScorer) Score(ctx context.Context, profile plans.Profile) ([]plans.Score, error) {
	return s.scores, s.err
}

func newPlansMux(scorer plans.Scorer) *http.ServeMux {
	mux := http.NewServeMux()
	NewPlansHandler(scorer, zerolog.Nop()).RegisterRoutes(mux)
	return mux
}

func postRecommendations(mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRecommend(t *testing.T) {
	mux := newPlansMux(stubScorer{scores: []plans.Score{
		{Plan: "iProtect Smart", Confidence: 0.8},
		{Plan: "Unknown Plan", Confidence: 0.7},
	}})

	rec := postRecommendations(mux, `{"Age": 35}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Recommendations []plans.Recommendation `json:"recommendations"`
		Count           int                    `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if resp.Count != 1 || len(resp.Recommendations) != 1 {
		t.Fatalf("Response = %+v", resp)
	}
	if resp.Recommendations[0].Plan != "iProtect Smart" {
		t.Errorf("Plan = %q", resp.Recommendations[0].Plan)
	}
}

func TestRecommend_InvalidBody(t *testing.T) {
	mux := newPlansMux(stubScorer{})
	if rec := postRecommendations(mux, `{nope`); rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", rec.Code)
	}
}

func TestRecommend_RequiresAge(t *testing.T) {
	mux := newPlansMux(stubScorer{})
	if rec := postRecommendations(mux, `{"Gender": "F"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", rec.Code)
	}
}

func TestRecommend_ScorerDown(t *testing.T) {
	mux := newPlansMux(stubScorer{err: errors.New("predictor offline")})
	if rec := postRecommendations(mux, `{"Age": 35}`); rec.Code != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", rec.Code)
	}
}
