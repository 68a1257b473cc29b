// Package plans implements the plan-recommendation feature: a client for the
// remote plan-scoring model plus the static plan lookup table that filters
// and enriches the model's ranked output. The scoring model itself is opaque;
// only its request/response contract is relied on.
package plans

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Profile is the fixed-shape user profile the scoring model expects. Field
// names on the wire follow the upstream service contract.
type Profile struct {
	Age                       int     `json:"Age"`
	Gender                    string  `json:"Gender"`
	SmokingStatus             string  `json:"Smoking_Status"`
	AnnualIncome              float64 `json:"Annual_Income"`
	ExistingLoansDebts        int     `json:"Existing_Loans_Debts"`
	ExistingInsurancePolicies int     `json:"Existing_Insurance_Policies"`
	DesiredSumAssured         float64 `json:"Desired_Sum_Assured"`
	PolicyTermYears           int     `json:"Policy_Term_Years"`
	PremiumPaymentOption      string  `json:"Premium_Payment_Option"`
	DeathBenefitOption        string  `json:"Death_Benefit_Option"`
	PayoutType                string  `json:"Payout_Type"`
	MedicalHistory            string  `json:"Medical_History"`
	LifestyleHabits           string  `json:"Lifestyle_Habits"`
	InterestInOptionalRiders  bool    `json:"Interest_in_Optional_Riders"`
	InterestInTaxSaving       bool    `json:"Interest_in_Tax_Saving"`
}

// Score is one ranked entry from the scoring model.
type Score struct {
	Plan       string  `json:"plan"`
	Confidence float64 `json:"confidence"`
}

// Scorer ranks plans for a profile.
type Scorer interface {
	Score(ctx context.Context, profile Profile) ([]Score, error)
}

// HTTPScorer calls the remote scoring service over HTTP.
type HTTPScorer struct {
	url    string
	client *http.Client
}

// NewHTTPScorer creates a scorer for the given prediction endpoint.
func NewHTTPScorer(url string) *HTTPScorer {
	return &HTTPScorer{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Score posts the profile and decodes the ranked plan list.
func (s *HTTPScorer) Score(ctx context.Context, profile Profile) ([]Score, error) {
	body, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("Score: marshal profile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("Score: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Score: calling scoring service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("Score: scoring service returned %d: %s", resp.StatusCode, msg)
	}

	var scores []Score
	if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
		return nil, fmt.Errorf("Score: decode response: %w", err)
	}

	return scores, nil
}

// Recommendation is a scored plan enriched with catalog details.
type Recommendation struct {
	Plan       string  `json:"plan"`
	Confidence float64 `json:"confidence"`

	Type             string `json:"type"`
	Features         string `json:"features"`
	SumAssuredRange  string `json:"sum_assured_range"`
	PremiumRange     string `json:"premium_range"`
	MedicalRequired  string `json:"medical_required"`
	ReturnOfPremium  string `json:"return_of_premium"`
	PolicyTermRange  string `json:"policy_term_range"`
	LifeCoverTillAge string `json:"life_cover_till_age"`
	PayoutType       string `json:"payout_type"`
	RidersAvailable  string `json:"riders_available"`
	IncomeCriteria   string `json:"income_criteria"`
	PaymentOption    string `json:"payment_option"`
	DeathBenefitOpt  string `json:"death_benefit_option"`
}

// Recommend filters the model's ranked list by age eligibility and enriches
// each surviving entry from the catalog. Plans the catalog does not know are
// dropped: an unenrichable name cannot be presented to the user.
func Recommend(scores []Score, age int) []Recommendation {
	out := make([]Recommendation, 0, len(scores))
	for _, score := range scores {
		plan, ok := catalogByName[score.Plan]
		if !ok {
			continue
		}
		if age < plan.MinEntryAge || age > plan.MaxEntryAge {
			continue
		}
		out = append(out, Recommendation{
			Plan:             plan.Name,
			Confidence:       score.Confidence,
			Type:             plan.Type,
			Features:         plan.Features,
			SumAssuredRange:  plan.SumAssuredRange,
			PremiumRange:     plan.PremiumRange,
			MedicalRequired:  plan.MedicalRequired,
			ReturnOfPremium:  plan.ReturnOfPremium,
			PolicyTermRange:  plan.PolicyTermRange,
			LifeCoverTillAge: plan.LifeCoverTillAge,
			PayoutType:       plan.PayoutType,
			RidersAvailable:  plan.RidersAvailable,
			IncomeCriteria:   plan.IncomeCriteria,
			PaymentOption:    plan.PaymentOption,
			DeathBenefitOpt:  plan.DeathBenefitOption,
		})
	}
	return out
}
