package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"arguely/internal/models"
)

// Verdict is the judge's structured scorecard for a completed round.
type Verdict struct {
	Winner       string        `json:"winner"` // "Player A", "Player B", "AI" or "Draw"
	WinnerName   string        `json:"winnerName"`
	Scores       Scores        `json:"scores"`
	Reasoning    string        `json:"reasoning"`
	Feedback     []string      `json:"feedback"`
	UserAnalysis *UserAnalysis `json:"user_analysis"`
}

type Scores struct {
	PlayerA float64 `json:"playerA"`
	PlayerB float64 `json:"playerB"`
}

// UserAnalysis is the scouting report persisted into the user's AI memory.
type UserAnalysis struct {
	PlayStyle        string `json:"play_style"`
	DetectedWeakness string `json:"detected_weakness"`
	TipForNextAI     string `json:"tip_for_next_ai"`
}

const judgeSystemPrompt = `You are the Supreme Judge of a debate.
Topic: %q
Mode: %q

Decide the winner and create a "Scouting Report".

OUTPUT JSON:
{
  "winner": "Player A" | "Player B" | "AI" | "Draw",
  "winnerName": "string",
  "scores": { "playerA": number, "playerB": number },
  "reasoning": "string",
  "feedback": ["string"],
  "user_analysis": {
      "play_style": "string",
      "detected_weakness": "string",
      "tip_for_next_ai": "string"
  }
}

SCORING ADJUSTMENTS (THE "STYLE SWITCH" RULE):
1. **Global Override Check**:
   - Scan the USER'S text for slang triggers (e.g., "no cap", "bet", "bruh", "damn", "rizz", "deadass").
   - **IF DETECTED**: The User has activated "Gen Z Override". **IGNORE** standard professional rules. Rate strictly on "Aura", "Roast Quality", and Logic.

2. **If NO Override is detected**:
   - **"POLITICS_INDIA" / "GENERAL"**: Penalize slang, emojis, and lack of professionalism.
   - **"ADULT"**: Do NOT penalize profanity. Judge on dominance.
   - **"GENZ"**: Slang is required. Reward funny insults.`

// Judge produces the final verdict for a round from its transcript.
type Judge struct {
	client *Client
	logger *zap.Logger
}

func NewJudge(client *Client, logger *zap.Logger) *Judge {
	return &Judge{client: client, logger: logger}
}

// Decide never fails: both tiers failing, or an unparseable reply, declare a
// Draw so the round still finishes.
func (j *Judge) Decide(ctx context.Context, topic string, mode models.RoundMode, transcript string) Verdict {
	text, err := j.client.Generate(ctx, 0.6,
		Message{Role: "system", Content: fmt.Sprintf(judgeSystemPrompt, topic, string(mode))},
		Message{Role: "user", Content: "TRANSCRIPT:\n\n" + transcript},
	)
	if err != nil {
		j.logger.Warn("judging failed", zap.Error(err))
		return fallbackVerdict()
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &verdict); err != nil {
		j.logger.Warn("verdict parse failed", zap.Error(err), zap.String("raw", text))
		return fallbackVerdict()
	}
	return verdict
}

func fallbackVerdict() Verdict {
	return Verdict{
		Winner:     "Draw",
		WinnerName: "Draw",
		Scores:     Scores{PlayerA: 50, PlayerB: 50},
		Reasoning:  "The debate was inconclusive due to high server load.",
		Feedback:   []string{"Please try again later."},
	}
}
