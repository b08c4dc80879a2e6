package agent

import (
	"context"
	"fmt"
	"unicode/utf8"

	"studymate/internal/llm"
)

// courseContentLimit is the hard character budget for embedded material.
const courseContentLimit = 12000

// truncatedMarker is always appended when material is cut; it must never be
// dropped silently.
const truncatedMarker = "\n\n[Content truncated for length...]"

// truncate cuts s at limit bytes and appends the truncation marker. The cut
// backs off to the nearest rune boundary so multi-byte text stays valid.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncatedMarker
}

// sourceLabel tags embedded material with its provenance.
func sourceLabel(side *SideChannel) string {
	switch side.Source {
	case SourcePDF:
		return "📄 PDF Document"
	case SourcePPTX:
		return "📊 PowerPoint Presentation"
	case SourceURL:
		return fmt.Sprintf("🌐 Web Page: %s", side.URL)
	default:
		return "📝 Plain Text"
	}
}

// handleCourse transforms uploaded course material according to the student's
// request. Without side content it answers as a general course question.
func (o *Orchestrator) handleCourse(ctx context.Context, st *State) (string, error) {
	client := o.clients(tempCourse)
	userMessage := st.lastUserMessage()

	if st.Side == nil || st.Side.Content == "" {
		return client.Invoke(ctx, []llm.Message{
			llm.System(coursePrompt),
			llm.User(userMessage),
		})
	}

	material := truncate(st.Side.Content, courseContentLimit)
	prompt := fmt.Sprintf(`Source: %s

--- COURSE MATERIAL ---
%s
--- END OF MATERIAL ---

Student request: %s

Please process the above course material according to the student's request.`,
		sourceLabel(st.Side), material, userMessage)

	return client.Invoke(ctx, []llm.Message{
		llm.System(coursePrompt),
		llm.User(prompt),
	})
}
