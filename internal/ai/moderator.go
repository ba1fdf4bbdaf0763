package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// FactCheckPrefix marks moderator interventions in the transcript.
const FactCheckPrefix = "⚠️ Fact Check: "

const moderatorSystemPrompt = `You are a strict AI Referee for a debate on: %q.

PROTOCOL:
1. IGNORE opinions, predictions, generalizations, sarcasm, or logic/reasoning errors.
2. IGNORE slight inaccuracies (e.g., saying "100 years" instead of "102 years").
3. ONLY INTERVENE if the user states a specific, objective fact that is FALSE (e.g., wrong dates, wrong statistics, false scientific laws, misquoting a specific document).

OUTPUT FORMAT:
- If the statement is an opinion or factually acceptable: Reply ONLY the word "PASS".
- If there is a clear factual lie: Reply starting with "` + FactCheckPrefix + `" followed by the correction (max 1 sentence).`

// Moderator fact-checks PvP statements.
type Moderator struct {
	client *Client
	logger *zap.Logger
}

func NewModerator(client *Client, logger *zap.Logger) *Moderator {
	return &Moderator{client: client, logger: logger}
}

// Moderate returns a correction string, or "" when the statement passes.
// Failures return "" as well: the referee stays silent rather than breaking
// the game.
func (m *Moderator) Moderate(ctx context.Context, topic, argument string) string {
	system := fmt.Sprintf(moderatorSystemPrompt, topic)

	text, err := m.client.Generate(ctx, 0.1,
		Message{Role: "system", Content: system},
		Message{Role: "user", Content: "User Statement: \"" + argument + "\""},
	)
	if err != nil {
		m.logger.Warn("moderation failed", zap.Error(err))
		return ""
	}

	clean := strings.TrimSpace(text)

	// A PASS (or a hallucinated short "OK") means stay silent.
	if strings.Contains(strings.ToUpper(clean), "PASS") || len(clean) < 5 {
		return ""
	}

	// Force the alert prefix when the model drops it.
	if !strings.HasPrefix(clean, FactCheckPrefix) {
		return FactCheckPrefix + clean
	}
	return clean
}
