package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"studymate/internal/domain"
	"studymate/internal/extract"
	"studymate/internal/llm"
)

// deadlineAction is the structured payload the deadline agent asks the model
// for.
type deadlineAction struct {
	Action      string             `json:"action"`
	Data        deadlineActionData `json:"data"`
	UserMessage string             `json:"user_message"`
}

type deadlineActionData struct {
	Title    string  `json:"title"`
	DueDate  string  `json:"due_date"`
	Subject  string  `json:"subject"`
	Priority string  `json:"priority"`
	Notes    string  `json:"notes"`
	Status   string  `json:"status"`
	Days     float64 `json:"days"`
	ID       any     `json:"id"`
	Message  string  `json:"message"`
}

// targetID coerces the id field, which models emit as either a number or a
// string.
func (d deadlineActionData) targetID() int64 {
	switch v := d.ID.(type) {
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(v, "#")), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// handleDeadline classifies the message into a storage action via the model
// and executes it. Safety property: when extraction fails, the raw model
// reply is returned verbatim and no storage mutation happens. A malformed
// model response must never trigger an unintended write.
func (o *Orchestrator) handleDeadline(ctx context.Context, st *State) (string, error) {
	systemPrompt := fmt.Sprintf(deadlinePromptHeader, o.now().Format("2006-01-02"))

	current, err := o.deadlines.ListDeadlines(ctx, "")
	if err != nil {
		return "", fmt.Errorf("load deadline context: %w", err)
	}
	if len(current) > 0 {
		var b strings.Builder
		b.WriteString("\n\nCurrent deadlines in the database:\n")
		for _, d := range current {
			fmt.Fprintf(&b, "- ID#%d: %s | Due: %s | Status: %s\n", d.ID, d.Title, d.DueDate, d.Status)
		}
		systemPrompt += b.String()
	}

	raw, err := o.clients(tempDeadline).Invoke(ctx, []llm.Message{
		llm.System(systemPrompt),
		llm.User(st.lastUserMessage()),
	})
	if err != nil {
		return "", err
	}

	var action deadlineAction
	if !extract.Into(raw, &action) || action.Action == "" {
		return raw, nil
	}
	return o.executeDeadlineAction(ctx, action)
}

func (o *Orchestrator) executeDeadlineAction(ctx context.Context, action deadlineAction) (string, error) {
	data := action.Data

	switch action.Action {
	case "add":
		record, err := o.deadlines.AddDeadline(ctx, data.Title, data.DueDate, data.Subject, data.Priority, data.Notes)
		if err != nil {
			return fmt.Sprintf("❌ Error adding deadline: %v", err), nil
		}
		return fmt.Sprintf("✅ **Deadline added!**\n\n%s\n\n%s", formatDeadline(*record), action.UserMessage), nil

	case "list":
		status := data.Status
		if status == "all" {
			status = ""
		}
		deadlines, err := o.deadlines.ListDeadlines(ctx, status)
		if err != nil {
			return "", fmt.Errorf("list deadlines: %w", err)
		}
		label := "(all)"
		if status != "" {
			label = "(" + status + ")"
		}
		return fmt.Sprintf("📋 **Your Deadlines** %s:\n\n%s", label, formatDeadlineList(deadlines)), nil

	case "upcoming":
		days := int(data.Days)
		if days <= 0 {
			days = 7
		}
		deadlines, err := o.deadlines.UpcomingDeadlines(ctx, days)
		if err != nil {
			return "", fmt.Errorf("upcoming deadlines: %w", err)
		}
		return fmt.Sprintf("📅 **Upcoming Deadlines** (next %d days):\n\n%s", days, formatDeadlineList(deadlines)), nil

	case "complete":
		id := data.targetID()
		if id > 0 {
			ok, err := o.deadlines.UpdateDeadlineStatus(ctx, id, domain.StatusDone)
			if err != nil {
				return "", fmt.Errorf("complete deadline: %w", err)
			}
			if ok {
				return fmt.Sprintf("✅ Deadline #%d marked as **done**! Great work! 🎉", id), nil
			}
		}
		return fmt.Sprintf("❌ Could not find deadline #%d.", id), nil

	case "delete":
		id := data.targetID()
		if id > 0 {
			ok, err := o.deadlines.DeleteDeadline(ctx, id)
			if err != nil {
				return "", fmt.Errorf("delete deadline: %w", err)
			}
			if ok {
				return fmt.Sprintf("🗑️ Deadline #%d deleted.", id), nil
			}
		}
		return fmt.Sprintf("❌ Could not find deadline #%d.", id), nil

	default:
		// plan or chat: no storage mutation.
		if action.UserMessage != "" {
			return action.UserMessage, nil
		}
		if data.Message != "" {
			return data.Message, nil
		}
		return "How can I help with your deadlines?", nil
	}
}

var priorityIcons = map[string]string{
	domain.PriorityHigh:   "🔴",
	domain.PriorityMedium: "🟡",
	domain.PriorityLow:    "🟢",
}

var statusIcons = map[string]string{
	domain.StatusPending: "⏳",
	domain.StatusDone:    "✅",
	domain.StatusOverdue: "❌",
}

func formatDeadline(d domain.Deadline) string {
	icon, ok := priorityIcons[d.Priority]
	if !ok {
		icon = priorityIcons[domain.PriorityMedium]
	}
	status, ok := statusIcons[d.Status]
	if !ok {
		status = statusIcons[domain.StatusPending]
	}

	subject := ""
	if d.Subject != "" {
		subject = " | " + d.Subject
	}
	notes := ""
	if d.Notes != "" {
		notes = "\n   📝 " + d.Notes
	}
	return fmt.Sprintf("%s **%s**%s\n   %s Due: %s | ID: #%d%s",
		status, d.Title, subject, icon, d.DueDate, d.ID, notes)
}

func formatDeadlineList(deadlines []domain.Deadline) string {
	if len(deadlines) == 0 {
		return "📭 No deadlines found."
	}
	parts := make([]string, 0, len(deadlines))
	for _, d := range deadlines {
		parts = append(parts, formatDeadline(d))
	}
	return strings.Join(parts, "\n\n")
}
