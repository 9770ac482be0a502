package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akarpov/claimroute/internal/model"
)

// Renderer writes pipeline results for the presentation layer
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the result record as indented JSON
func (r *Renderer) RenderJSON(result *model.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}

// RenderSummary prints a human-readable outcome summary to stdout
func (r *Renderer) RenderSummary(result *model.Result) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Claim Processing Result")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Printf("  Status:       %s\n", result.Status)

	if result.Status == model.StatusFailed {
		fmt.Printf("  Reason:       %s\n", result.Reason)
		fmt.Println()
		return
	}

	if result.Extracted != nil {
		if result.Extracted.PolicyNumber != "" {
			fmt.Printf("  Policy No:    %s\n", result.Extracted.PolicyNumber)
		}
		if result.Extracted.ClaimValue != nil {
			fmt.Printf("  Claim Value:  $%.2f\n", *result.Extracted.ClaimValue)
		}
		if len(result.Extracted.PersonNames) > 0 {
			fmt.Printf("  Claimant:     %s\n", strings.Join(result.Extracted.PersonNames, ", "))
		}
	}

	if result.Classification != nil {
		fmt.Printf("  Claim Type:   %s (%.2f confidence, %s priority)\n",
			result.Classification.ClaimType,
			result.Classification.Confidence,
			result.Classification.Priority)
	}

	if result.Compliance != nil {
		fmt.Printf("  Compliance:   %v — %s\n", result.Compliance.IsCompliant, result.Compliance.Reason)
	}

	if result.Routing != nil {
		fmt.Printf("  Decision:     %s\n", result.Routing.Decision)
		fmt.Printf("  Reason:       %s\n", result.Routing.Reason)
	}

	fmt.Println()
}

// ResultFilename derives a report filename from a document path
func ResultFilename(documentPath string) string {
	base := filepath.Base(documentPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	name := b.String()
	if len(name) > 100 {
		name = name[:100]
	}
	if name == "" {
		name = "claim"
	}

	return name + ".json"
}
