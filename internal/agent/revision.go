package agent

import (
	"context"
	"fmt"
	"strings"

	"studymate/internal/domain"
	"studymate/internal/extract"
	"studymate/internal/llm"
)

const (
	revisionStructuredLimit = 8000
	revisionChatLimit       = 6000
)

// revisionMode decides which study aid the user asked for. Quiz wins over
// flashcards, flashcards over summary, so "quiz me on my flashcards" still
// produces a quiz.
type revisionMode string

const (
	modeQuiz       revisionMode = "quiz"
	modeFlashcards revisionMode = "flashcards"
	modeSummary    revisionMode = "summary"
	modeChat       revisionMode = "chat"
)

var revisionKeywords = []struct {
	mode  revisionMode
	words []string
}{
	{modeQuiz, []string{"quiz", "test me", "question", "mcq", "multiple choice"}},
	{modeFlashcards, []string{"flashcard", "flash card", "card", "term", "definition"}},
	{modeSummary, []string{"summary", "summarize", "revise", "recap", "overview", "notes"}},
}

func detectRevisionMode(message string) revisionMode {
	lower := strings.ToLower(message)
	for _, group := range revisionKeywords {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				return group.mode
			}
		}
	}
	return modeChat
}

type quizQuestion struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type flashcard struct {
	ID    int    `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

type revisionPayload struct {
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Questions []quizQuestion `json:"questions"`
	Cards     []flashcard    `json:"cards"`
	Content   string         `json:"content"`
}

// handleRevision turns uploaded material into a quiz, flashcards, or a
// summary depending on the request, falling back to free-form tutoring when
// no study-aid keyword matches.
func (o *Orchestrator) handleRevision(ctx context.Context, st *State) (string, error) {
	message := st.lastUserMessage()
	material := ""
	if st.Side != nil {
		material = st.Side.Content
	}
	mode := detectRevisionMode(message)

	if mode == modeChat {
		return o.revisionChat(ctx, st, material)
	}

	// Structured modes run with or without uploaded material; without it the
	// model works from the topic named in the request.
	request := fmt.Sprintf("Student request: %s\n\nGenerate a %s covering the requested topic.", message, mode)
	if material != "" {
		request = fmt.Sprintf("Study material:\n%s\n\n%s", truncate(material, revisionStructuredLimit), request)
	}

	raw, err := o.clients(tempRevision).Invoke(ctx, []llm.Message{
		llm.System(revisionStructuredPrompt),
		llm.User(request),
	})
	if err != nil {
		return "", err
	}

	var payload revisionPayload
	if !extract.Into(raw, &payload) {
		return raw, nil
	}

	switch mode {
	case modeQuiz:
		if len(payload.Questions) == 0 {
			return raw, nil
		}
		return renderQuiz(payload.Title, payload.Questions), nil
	case modeFlashcards:
		if len(payload.Cards) == 0 {
			return raw, nil
		}
		return renderFlashcards(payload.Title, payload.Cards), nil
	default:
		if payload.Content == "" {
			return raw, nil
		}
		return renderRevisionSummary(payload.Title, payload.Content), nil
	}
}

func (o *Orchestrator) revisionChat(ctx context.Context, st *State, material string) (string, error) {
	system := revisionChatPrompt
	if material != "" {
		system = fmt.Sprintf("%s\n\nThe student has uploaded this material:\n%s",
			revisionChatPrompt, truncate(material, revisionChatLimit))
	}

	messages := []llm.Message{llm.System(system)}
	for _, t := range st.Turns {
		if t.Role == domain.RoleUser {
			messages = append(messages, llm.User(t.Content))
		} else {
			messages = append(messages, llm.Assistant(t.Content))
		}
	}

	return o.clients(tempRevision).Invoke(ctx, messages)
}

func renderQuiz(title string, questions []quizQuestion) string {
	if title == "" {
		title = "Quiz Time!"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📝 **%s**\n\n", title)
	for i, q := range questions {
		fmt.Fprintf(&b, "**Q%d. %s**\n\n", i+1, q.Question)
		for _, opt := range q.Options {
			fmt.Fprintf(&b, "%s\n", opt)
		}
		fmt.Fprintf(&b, "\n<details><summary>Show answer</summary>\n\n**Answer:** %s", q.Answer)
		if q.Explanation != "" {
			fmt.Fprintf(&b, "\n\n%s", q.Explanation)
		}
		b.WriteString("\n\n</details>\n\n---\n\n")
	}
	return strings.TrimSuffix(b.String(), "---\n\n")
}

func renderFlashcards(title string, cards []flashcard) string {
	if title == "" {
		title = "Flashcards"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🗂️ **%s**\n\n", title)
	for i, c := range cards {
		fmt.Fprintf(&b, "**Card %d**\n\n🔹 **Front:** %s\n\n🔸 **Back:** %s\n\n---\n\n", i+1, c.Front, c.Back)
	}
	return strings.TrimSuffix(b.String(), "---\n\n")
}

func renderRevisionSummary(title, content string) string {
	if title == "" {
		title = "Revision Summary"
	}
	return fmt.Sprintf("📚 **%s**\n\n%s", title, content)
}
