package plans

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecommend_AgeFilter(t *testing.T) {
	scores := []Score{
		{Plan: "Young Star Plan", Confidence: 0.9},
		{Plan: "Retire Assure Pension", Confidence: 0.8},
	}

	young := catalogByName["Young Star Plan"]
	retire := catalogByName["Retire Assure Pension"]
	if young.Name == "" || retire.Name == "" {
		t.Fatal("Catalog is missing expected plans")
	}

	// An age inside the young plan's window but below the pension plan's
	// minimum keeps only the first.
	age := young.MinEntryAge
	if age >= retire.MinEntryAge {
		t.Fatalf("Test assumes young min %d < pension min %d", young.MinEntryAge, retire.MinEntryAge)
	}

	recs := Recommend(scores, age)
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].Plan != "Young Star Plan" {
		t.Errorf("Plan = %q, want Young Star Plan", recs[0].Plan)
	}
	if recs[0].Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", recs[0].Confidence)
	}
	if recs[0].Type == "" || recs[0].Features == "" {
		t.Errorf("Recommendation not enriched from catalog: %+v", recs[0])
	}
}

func TestRecommend_UnknownPlanDropped(t *testing.T) {
	recs := Recommend([]Score{{Plan: "Imaginary Plan", Confidence: 1}}, 30)
	if len(recs) != 0 {
		t.Errorf("Unknown plans must be dropped, got %v", recs)
	}
}

func TestRecommend_PreservesModelOrder(t *testing.T) {
	scores := []Score{
		{Plan: "iProtect Smart", Confidence: 0.5},
		{Plan: "Smart Shield Plus", Confidence: 0.9},
	}

	recs := Recommend(scores, 35)
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Plan != "iProtect Smart" {
		t.Errorf("Model ranking must be preserved, got %v first", recs[0].Plan)
	}
}

func TestCatalogConsistency(t *testing.T) {
	for name, plan := range catalogByName {
		if name != plan.Name {
			t.Errorf("Catalog key %q does not match plan name %q", name, plan.Name)
		}
		if plan.MinEntryAge < 0 || plan.MaxEntryAge <= plan.MinEntryAge {
			t.Errorf("Plan %q has implausible entry ages %d-%d", name, plan.MinEntryAge, plan.MaxEntryAge)
		}
	}
}

func TestHTTPScorer_Score(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		var profile Profile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			t.Errorf("Decoding profile: %v", err)
		}
		if profile.Age != 32 {
			t.Errorf("Age = %d, want 32", profile.Age)
		}
		json.NewEncoder(w).Encode([]Score{
			{Plan: "iProtect Smart", Confidence: 0.87},
		})
	}))
	defer srv.Close()

	scores, err := NewHTTPScorer(srv.URL).Score(context.Background(), Profile{Age: 32})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if len(scores) != 1 || scores[0].Plan != "iProtect Smart" || scores[0].Confidence != 0.87 {
		t.Errorf("scores = %v", scores)
	}
}

func TestHTTPScorer_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewHTTPScorer(srv.URL).Score(context.Background(), Profile{Age: 32}); err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestProfileWireFormat(t *testing.T) {
	data, err := json.Marshal(Profile{Age: 30, SmokingStatus: "Non-Smoker"})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["Smoking_Status"]; !ok {
		t.Errorf("Profile must serialize with upstream field names, got %s", data)
	}
}
