package gemini

import (
	"fmt"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/apeksha07/insurance-advisor/internal/engine"
)

func TestBuildPrompt(t *testing.T) {
	req := engine.ClassifyRequest{
		Category:   "Pharmacy",
		Withdrawal: "120.5",
		Deposit:    "0",
		RefNo:      "TX42",
		Remark:     "monthly prescription",
	}

	prompt := buildPrompt(req)

	for _, want := range []string{
		"- Category: Pharmacy",
		"- Remark: monthly prescription",
		"- Withdrawal amount: 120.5",
		"- Deposit amount: 0",
		"- Reference No: TX42",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}

	// The closed vocabulary must be spelled out for the model.
	for _, label := range []string{"Life", "Health", "Accident", "Motor", "Credit", "Liability", "Travel", "Home"} {
		if !strings.Contains(prompt, "- "+label) {
			t.Errorf("Prompt missing label %q", label)
		}
	}
	if !strings.Contains(prompt, "Do not explain your reasoning.") {
		t.Error("Prompt must suppress free-form output")
	}
}

func TestAsAPIError(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", genai.APIError{Code: 429, Message: "quota exceeded"})

	upstream, ok := asAPIError(wrapped)
	if !ok {
		t.Fatal("Expected genai API error to map to an upstream error")
	}
	if upstream.Status != 429 {
		t.Errorf("Status = %d, want 429", upstream.Status)
	}
	if !strings.Contains(upstream.Message, "quota") {
		t.Errorf("Message = %q", upstream.Message)
	}
}

func TestAsAPIError_OtherErrors(t *testing.T) {
	if _, ok := asAPIError(fmt.Errorf("dial tcp: connection refused")); ok {
		t.Error("Transport errors must not map to upstream errors")
	}
}
