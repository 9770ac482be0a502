package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// buildPrompt constructs the labelling prompt shared by the LLM backends.
// The label set is a strict allowlist: the model may not invent claim types
// outside the configured training data.
func buildPrompt(labels []string, text string) string {
	return fmt.Sprintf(`You are labelling an insurance claim document.

Assign exactly one claim type from this list:
%s

Respond with ONLY a JSON object, no prose:
{"claim_type": "<one of the allowed types, or \"unknown\">", "confidence": <number between 0 and 1>}

Rules:
1. claim_type MUST be one of the allowed types. If none fits, use "unknown".
2. confidence reflects how certain you are of the label, not claim validity.
3. Do not add fields, markdown, or commentary.

Claim document text:
%s`, joinLabels(labels), text)
}

func joinLabels(labels []string) string {
	var b strings.Builder
	for _, l := range labels {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	return strings.TrimRight(b.String(), "\n")
}

// labelResponse is the JSON shape the backends are instructed to return
type labelResponse struct {
	ClaimType  string  `json:"claim_type"`
	Confidence float64 `json:"confidence"`
}

// parseLabelResponse extracts and validates the label JSON from raw model
// output. Code fences and surrounding prose are tolerated; an out-of-set or
// "unknown" label is a classification failure.
func parseLabelResponse(raw string, labels []string) (string, float64, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", 0, fmt.Errorf("no JSON object in response: %q", truncate(raw, 120))
	}

	var resp labelResponse
	if err := json.Unmarshal([]byte(raw[start:end+1]), &resp); err != nil {
		return "", 0, fmt.Errorf("parse label response: %w", err)
	}

	label := strings.ToLower(strings.TrimSpace(resp.ClaimType))
	if label == "" || label == "unknown" {
		return "", 0, fmt.Errorf("model could not assign a claim type")
	}

	matched := ""
	for _, l := range labels {
		if strings.EqualFold(l, label) {
			matched = l
			break
		}
	}
	if matched == "" {
		return "", 0, fmt.Errorf("model returned claim type %q outside the allowed set", resp.ClaimType)
	}

	conf := resp.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}

	return matched, conf, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
