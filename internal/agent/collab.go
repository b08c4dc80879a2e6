package agent

import (
	"context"
	"fmt"
	"strings"

	"studymate/internal/extract"
	"studymate/internal/llm"
)

const (
	groupQuizLimit    = 12000
	groupSummaryLimit = 12000
	roomContextLimit  = 10000
)

type groupQuizQuestion struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Source      string   `json:"source"`
}

type groupQuizPayload struct {
	Title     string              `json:"title"`
	Questions []groupQuizQuestion `json:"questions"`
}

// GroupQuiz builds a unified quiz over everything uploaded to a study room.
// merged is the room's combined material with per-file attribution headers.
func (o *Orchestrator) GroupQuiz(ctx context.Context, merged string) (string, error) {
	if merged == "" {
		return "📭 No materials uploaded to this room yet. Upload something first!", nil
	}

	raw, err := o.clients(tempCollab).Invoke(ctx, []llm.Message{
		llm.System(groupQuizPrompt),
		llm.User(fmt.Sprintf("Materials uploaded by the group:\n\n%s", truncate(merged, groupQuizLimit))),
	})
	if err != nil {
		return "", fmt.Errorf("group quiz: %w", err)
	}

	var payload groupQuizPayload
	if !extract.Into(raw, &payload) || len(payload.Questions) == 0 {
		return "⚠️ Could not generate a quiz from the uploaded materials. Try again or upload more content.", nil
	}
	return renderGroupQuiz(payload), nil
}

func renderGroupQuiz(payload groupQuizPayload) string {
	title := payload.Title
	if title == "" {
		title = "Group Quiz"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 **%s**\n\n", title)
	for i, q := range payload.Questions {
		fmt.Fprintf(&b, "**Q%d. %s**\n\n", i+1, q.Question)
		for _, opt := range q.Options {
			fmt.Fprintf(&b, "%s\n", opt)
		}
		if q.Source != "" {
			fmt.Fprintf(&b, "\n*From: %s*\n", q.Source)
		}
		fmt.Fprintf(&b, "\n<details><summary>Show answer</summary>\n\n**Answer:** %s", q.Answer)
		if q.Explanation != "" {
			fmt.Fprintf(&b, "\n\n%s", q.Explanation)
		}
		b.WriteString("\n\n</details>\n\n---\n\n")
	}
	return strings.TrimSuffix(b.String(), "---\n\n")
}

// GroupSummary produces one integrated study guide from the room's uploads.
func (o *Orchestrator) GroupSummary(ctx context.Context, merged string) (string, error) {
	if merged == "" {
		return "📭 No materials uploaded to this room yet. Upload something first!", nil
	}

	out, err := o.clients(tempCollab).Invoke(ctx, []llm.Message{
		llm.System(groupSummaryPrompt),
		llm.User(fmt.Sprintf("Materials uploaded by the group:\n\n%s", truncate(merged, groupSummaryLimit))),
	})
	if err != nil {
		return "", fmt.Errorf("group summary: %w", err)
	}
	return out, nil
}

// AnswerRoomQuestion answers a question inside a study room, grounding the
// reply in the room's uploads and recent conversation.
func (o *Orchestrator) AnswerRoomQuestion(ctx context.Context, merged, recent, question string) (string, error) {
	var b strings.Builder
	if merged != "" {
		fmt.Fprintf(&b, "Uploaded materials:\n%s\n\n", truncate(merged, roomContextLimit))
	}
	if recent != "" {
		fmt.Fprintf(&b, "Recent room conversation:\n%s\n\n", recent)
	}
	fmt.Fprintf(&b, "Question: %s", question)

	out, err := o.clients(tempCollab).Invoke(ctx, []llm.Message{
		llm.System(roomTutorPrompt),
		llm.User(b.String()),
	})
	if err != nil {
		return "", fmt.Errorf("room tutor: %w", err)
	}
	return out, nil
}
