package agent

import (
	"context"
	"fmt"
	"strings"

	"studymate/internal/llm"
	"studymate/internal/search"
)

const defaultSearchResults = 5

// handleResearch answers with live web context when the searcher returns
// anything, and degrades to the model's own knowledge when it does not.
func (o *Orchestrator) handleResearch(ctx context.Context, st *State) (string, error) {
	query := st.lastUserMessage()

	var results []search.Result
	if o.searcher != nil {
		results = o.searcher.Search(ctx, query, o.searchMax)
	}

	messages := []llm.Message{llm.System(researchPrompt)}
	if len(results) > 0 {
		messages = append(messages, llm.User(fmt.Sprintf(
			"Web search results for %q:\n\n%s\n\nQuestion: %s", query, formatResults(results), query)))
	} else {
		messages = append(messages, llm.User(fmt.Sprintf(
			"No web results were available. Answer from your own knowledge and say so.\n\nQuestion: %s", query)))
	}

	answer, err := o.clients(tempResearch).Invoke(ctx, messages)
	if err != nil {
		return "", err
	}

	if len(results) > 0 {
		var b strings.Builder
		b.WriteString(answer)
		b.WriteString("\n\n---\n**Sources:**\n")
		for i, r := range results {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "- [%s](%s)\n", r.Title, r.URL)
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}
	return answer, nil
}

func formatResults(results []search.Result) string {
	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("%d. %s\n   %s\n   %s", i+1, r.Title, r.URL, r.Snippet))
	}
	return strings.Join(parts, "\n\n")
}
