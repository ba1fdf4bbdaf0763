package ai

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Analysis is the analyst's fixed verdict schema for one argument.
type Analysis struct {
	ClaimSummary  string    `json:"claim_summary"`
	Fallacies     []string  `json:"fallacies"`
	EvidenceScore float64   `json:"evidence_score"`
	FactCheck     FactCheck `json:"fact_check"`
	Feedback      string    `json:"feedback"`
}

type FactCheck struct {
	Status     string `json:"status"` // PASS, WARN or FAIL
	Correction string `json:"correction"`
}

const analystSystemPrompt = `You are a rigorous Logic Analyst.
Analyze the debate argument provided.

CRITICAL INSTRUCTION:
You MUST return valid, parseable JSON only.
Do not include any text before or after the JSON.

Expected JSON Format:
{
  "claim_summary": "string (max 15 words)",
  "fallacies": ["string", "string"],
  "evidence_score": number (0-10),
  "fact_check": { "status": "PASS" | "WARN" | "FAIL", "correction": "string" },
  "feedback": "string (max 15 words)"
}`

// Analyst scores a single argument for logic and evidence quality.
type Analyst struct {
	client *Client
	logger *zap.Logger
}

func NewAnalyst(client *Client, logger *zap.Logger) *Analyst {
	return &Analyst{client: client, logger: logger}
}

// Analyze never fails: model errors and unparseable replies both yield the
// neutral fallback analysis.
func (a *Analyst) Analyze(ctx context.Context, argument, topic string) Analysis {
	text, err := a.client.Generate(ctx, 0.6,
		Message{Role: "system", Content: analystSystemPrompt},
		Message{Role: "user", Content: "Topic: \"" + topic + "\"\nArgument: \"" + argument + "\""},
	)
	if err != nil {
		a.logger.Warn("analysis failed", zap.Error(err))
		return fallbackAnalysis()
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &analysis); err != nil {
		a.logger.Warn("analysis parse failed", zap.Error(err))
		return fallbackAnalysis()
	}
	return analysis
}

func fallbackAnalysis() Analysis {
	return Analysis{
		ClaimSummary:  "Analysis unavailable",
		Fallacies:     []string{"System Error"},
		EvidenceScore: 5,
		FactCheck:     FactCheck{Status: "WARN", Correction: "Could not verify at this time."},
		Feedback:      "AI Analyst is temporarily offline.",
	}
}
