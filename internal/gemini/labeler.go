// Package gemini implements the engine's Classifier contract on top of the
// Gemini API. The model is a black box with a fixed output vocabulary; the
// engine validates membership, this package only handles transport.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/apeksha07/insurance-advisor/internal/engine"
)

// DefaultModelName is the default Gemini model used for labeling.
const DefaultModelName = "gemini-2.0-flash"

// Labeler classifies transactions through the Gemini API.
type Labeler struct {
	client *genai.Client
	model  string
}

// NewLabeler creates a Gemini-backed labeler. Credentials come from the
// environment (GEMINI_API_KEY), same as the rest of the genai tooling.
func NewLabeler(ctx context.Context, model string) (*Labeler, error) {
	if model == "" {
		model = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewLabeler: create genai client: %w", err)
	}

	return &Labeler{client: client, model: model}, nil
}

// Classify sends one transaction to the model and returns its response text
// verbatim. API-side failures are wrapped in engine.UpstreamError so the
// orchestrator can distinguish them from transport faults.
func (l *Labeler) Classify(ctx context.Context, req engine.ClassifyRequest) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(req)},
			},
		},
	}

	resp, err := l.client.Models.GenerateContent(ctx, l.model, contents, nil)
	if err != nil {
		if apiErr, ok := asAPIError(err); ok {
			return "", apiErr
		}
		return "", fmt.Errorf("Classify: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &engine.UpstreamError{Message: "empty response from model"}
	}

	return text, nil
}

// asAPIError maps genai's structured API errors onto engine.UpstreamError.
func asAPIError(err error) (*engine.UpstreamError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &engine.UpstreamError{Status: apiErr.Code, Message: apiErr.Message}, true
	}
	return nil, false
}

// buildPrompt assembles the classification prompt. The instruction block is
// fixed; only the transaction fields vary.
func buildPrompt(req engine.ClassifyRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert financial assistant. Based on the following transaction, ")
	b.WriteString("determine the most suitable type of insurance the person might need based on ")
	b.WriteString("their spending behavior and context. Analyze the remark and category fields ")
	b.WriteString("like a human would, considering what kind of activity the person is doing.\n\n")

	b.WriteString("Choose ONLY from the following insurance types:\n")
	b.WriteString("- Life\n- Health\n- Accident\n- Motor\n- Credit\n- Liability\n- Travel\n- Home\n\n")
	b.WriteString("If none of the above applies, respond with \"Other\".\n\n")

	b.WriteString("### Considerations:\n")
	b.WriteString("- Medical, hospital, pharmacy, diagnostic lab = Health\n")
	b.WriteString("- Food delivery, dining out, party, snacks, restaurants = Life (general wellbeing)\n")
	b.WriteString("- Bus, train, toll, fuel, ride services (e.g., Uber) = Travel\n")
	b.WriteString("- Driving-related, vehicle repairs, fuel station = Motor\n")
	b.WriteString("- School fees, tuition, courses, educational services = Liability\n")
	b.WriteString("- Loans, EMI payments, credit cards, bonds, funds, deposits, stocks, dividends, any finance event = Credit\n")
	b.WriteString("- Insurance-related payments (home, property, car) = Use exact match: Home, Motor, etc.\n")
	b.WriteString("- Gym, fitness, sports injuries, risky activities = Accident\n")
	b.WriteString("- Real estate, property purchases, house repairs = Home\n\n")

	b.WriteString("### Transaction:\n")
	b.WriteString("- Category: " + req.Category + "\n")
	b.WriteString("- Remark: " + req.Remark + "\n")
	b.WriteString("- Withdrawal amount: " + req.Withdrawal + "\n")
	b.WriteString("- Deposit amount: " + req.Deposit + "\n")
	b.WriteString("- Reference No: " + req.RefNo + "\n\n")

	b.WriteString("Respond with only one of the 8 categories or \"Other\". Do not explain your reasoning.")

	return b.String()
}
