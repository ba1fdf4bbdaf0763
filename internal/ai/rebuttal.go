package ai

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"arguely/internal/models"
)

// RebuttalFallback is emitted when both model tiers fail; the opponent
// stalls rather than erroring out of the debate.
const RebuttalFallback = "I need a moment to think."

// slangTriggers flip the opponent into the style override regardless of
// mode when the user's last message contains one.
var slangTriggers = []string{
	"💀", "😭", "🤡", "🗿", "🔥", "👀", "🤫", "🧢", "🙏", "🤣", "💔",
	"no cap", "fr", "bet", "bruh", "mid", "rizz", "yapping", "cooked", "man",
}

const styleOverride = `MODE: BRAINROT. USER SLANG DETECTED.
ACTION: REJECT FORMALITY. SPAM EMOJIS (💀,😭,🤡). MOCK THEM.`

// modeInstructions is the closed mode-to-template mapping; unknown modes get
// the GENERAL fragment.
var modeInstructions = map[models.RoundMode]string{
	models.ModeGeneral:       "CTX: Formal Debate. STYLE: Academic, Logical.",
	models.ModePVP:           "CTX: Formal Debate. STYLE: Academic, Logical.",
	models.ModePoliticsIndia: "CTX: Indian Politics. STYLE: Aggressive Anchor. NO SLANG.",
	models.ModeAdult:         "CTX: Mature. STYLE: Raw, Honest. Profanity OK.",
	models.ModeGenZ:          "CTX: Brainrot. STYLE: lowercase, slang. EMOJIS: 💀😭🤡. ROAST THEM.",
}

// RebuttalRequest carries everything that conditions the opponent's prompt.
type RebuttalRequest struct {
	Topic    string
	UserSide string // the human's side; the AI argues the opposite
	Mode     models.RoundMode
	Persona  string
	History  []Message
}

// Opponent generates the AI debater's streamed rebuttals.
type Opponent struct {
	client *Client
	logger *zap.Logger
}

func NewOpponent(client *Client, logger *zap.Logger) *Opponent {
	return &Opponent{client: client, logger: logger}
}

// BuildSystemPrompt assembles the rebuttal system prompt from the round's
// mode, persona and the user's last message.
func BuildSystemPrompt(req RebuttalRequest) string {
	stance := "Against"
	if strings.EqualFold(req.UserSide, "Against") {
		stance = "For"
	}

	instructions, ok := modeInstructions[req.Mode]
	if !ok {
		instructions = modeInstructions[models.ModeGeneral]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Role: Debater. Topic: %q. Stance: %s.\n", req.Topic, stance)
	b.WriteString(instructions)
	b.WriteString("\n")

	if HasSlangTrigger(lastUserMessage(req.History)) {
		b.WriteString(styleOverride)
		b.WriteString("\n")
	}
	if req.Persona != "" {
		fmt.Fprintf(&b, "PERSONA: %s.\n", req.Persona)
	}

	b.WriteString("Limit: 80 words. Attack last point.")
	return b.String()
}

// HasSlangTrigger reports whether text contains any style-override trigger.
func HasSlangTrigger(text string) bool {
	lower := strings.ToLower(text)
	for _, t := range slangTriggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func lastUserMessage(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}

// Rebut streams the opponent's reply to w and returns the full text. On
// total model failure the canned fallback line is written instead; the
// returned text is always non-empty.
func (o *Opponent) Rebut(ctx context.Context, req RebuttalRequest, w io.Writer) string {
	messages := append([]Message{{Role: "system", Content: BuildSystemPrompt(req)}}, req.History...)

	text, err := o.client.Stream(ctx, 0.6, w, messages...)
	if err != nil && text == "" {
		o.logger.Warn("rebuttal failed, using fallback", zap.Error(err))
		io.WriteString(w, RebuttalFallback)
		return RebuttalFallback
	}
	if err != nil {
		o.logger.Warn("rebuttal stream truncated", zap.Error(err))
	}
	return text
}
