package agent

import (
	"context"

	"studymate/internal/domain"
	"studymate/internal/llm"
)

// handleGeneral replays the whole conversation to the model under the
// assistant persona. The catch-all for greetings and unclear requests.
func (o *Orchestrator) handleGeneral(ctx context.Context, st *State) (string, error) {
	messages := make([]llm.Message, 0, len(st.Turns)+1)
	messages = append(messages, llm.System(generalPrompt))
	for _, turn := range st.Turns {
		if turn.Role == domain.RoleUser {
			messages = append(messages, llm.User(turn.Content))
		} else {
			messages = append(messages, llm.Assistant(turn.Content))
		}
	}
	return o.clients(tempGeneral).Invoke(ctx, messages)
}
