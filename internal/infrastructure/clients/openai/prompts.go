package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prospectiq/leadscout/internal/domain/entities"
	"github.com/prospectiq/leadscout/internal/domain/providers"
)

const summarySystemPrompt = `You are a sales-research assistant. Given a JSON lead profile, write a short factual summary of the company and person, and two or three personalized icebreaker lines a salesperson could open with.

Respond with ONLY valid JSON in this exact shape:
{"summary": "...", "icebreakers": ["...", "..."]}

Rules:
- The summary must only state facts present in the profile. Do not invent numbers, names, or events.
- Icebreakers must reference something concrete from the profile (funding, reviews, technology, a recent signal).
- Keep the summary under 120 words and each icebreaker under 30 words.`

func buildSummaryUserPrompt(identity entities.Identity, profile *entities.EnrichmentResult, opts providers.SummaryOptions) (string, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	var b strings.Builder
	if name := identity.FullName(); name != "" {
		fmt.Fprintf(&b, "Lead: %s", name)
		if identity.CompanyName != "" {
			fmt.Fprintf(&b, " at %s", identity.CompanyName)
		}
		b.WriteString("\n")
	} else if identity.CompanyName != "" {
		fmt.Fprintf(&b, "Company: %s\n", identity.CompanyName)
	}

	if opts.Tone != "" {
		fmt.Fprintf(&b, "Icebreaker tone: %s\n", opts.Tone)
	}
	if opts.SenderName != "" {
		fmt.Fprintf(&b, "Sender: %s", opts.SenderName)
		if opts.SenderRole != "" {
			fmt.Fprintf(&b, " (%s)", opts.SenderRole)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Profile JSON:\n%s", profileJSON)
	return b.String(), nil
}
