package agent

import (
	"context"
	"fmt"
	"log/slog"

	"studymate/internal/extract"
	"studymate/internal/llm"
)

// intentRouter classifies a user message into one of the handler intents.
type intentRouter interface {
	Route(ctx context.Context, lastUserMessage string) (Intent, error)
}

// Router picks an intent with a single model call. An unparseable reply or an
// unknown intent falls back to the general catch-all; only an upstream client
// failure is returned as an error. No retries, no temperature adjustment.
type Router struct {
	client llm.Client
}

var _ intentRouter = (*Router)(nil)

// NewRouter creates a Router using the given client factory.
func NewRouter(clients ClientFactory) *Router {
	return &Router{client: clients(tempRouter)}
}

// routerDecision is the shape the router asks the model for. The reasoning
// field is ephemeral: logged for debugging, never persisted.
type routerDecision struct {
	Intent    string `json:"intent"`
	Reasoning string `json:"reasoning"`
}

// Route returns an intent from the closed set, defaulting to general.
func (r *Router) Route(ctx context.Context, lastUserMessage string) (Intent, error) {
	raw, err := r.client.Invoke(ctx, []llm.Message{
		llm.System(routerPrompt),
		llm.User("Student message: " + lastUserMessage),
	})
	if err != nil {
		return IntentGeneral, fmt.Errorf("route message: %w", err)
	}

	var decision routerDecision
	if !extract.Into(raw, &decision) {
		slog.Debug("router reply not parseable, using general intent")
		return IntentGeneral, nil
	}

	intent := ParseIntent(decision.Intent)
	slog.Debug("routed message", "intent", intent, "reasoning", decision.Reasoning)
	return intent, nil
}
