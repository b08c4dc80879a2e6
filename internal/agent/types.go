// Package agent implements the multi-agent study assistant: an intent router,
// a set of specialized handlers, and the dispatch loop tying them together.
package agent

import (
	"studymate/internal/domain"
	"studymate/internal/llm"
)

// Intent selects which handler processes a user message.
type Intent string

const (
	IntentCourse   Intent = "course"
	IntentDeadline Intent = "deadline"
	IntentRevision Intent = "revision"
	IntentResearch Intent = "research"
	IntentGraph    Intent = "graph"
	IntentGeneral  Intent = "general"
)

// Intents is the closed set of routable intents.
var Intents = []Intent{
	IntentCourse, IntentDeadline, IntentRevision, IntentResearch, IntentGraph, IntentGeneral,
}

// ParseIntent maps a string onto the closed intent set. Anything outside the
// set collapses to the general catch-all.
func ParseIntent(s string) Intent {
	for _, intent := range Intents {
		if s == string(intent) {
			return intent
		}
	}
	return IntentGeneral
}

// SourceKind identifies where side-channel material came from.
type SourceKind string

const (
	SourcePDF  SourceKind = "pdf"
	SourcePPTX SourceKind = "pptx"
	SourceURL  SourceKind = "url"
	SourceText SourceKind = "text"
)

// SideChannel is a caller-supplied routing override. When present the router
// never runs: freshly uploaded material must always reach the intended
// handler regardless of what the accompanying sentence says.
type SideChannel struct {
	Intent  Intent     // course or revision
	Source  SourceKind // provenance of Content
	Content string     // extracted text payload
	URL     string     // original URL for provenance, when Source is url
}

// State is the transient per-dispatch state threaded through router and
// handler. Created fresh at dispatch start, discarded at dispatch end.
type State struct {
	Turns    []domain.Turn
	Intent   Intent
	Side     *SideChannel
	Response string
}

// lastUserMessage returns the latest user turn's content.
func (s *State) lastUserMessage() string {
	return domain.LastUserMessage(s.Turns)
}

// Result is the terminal output of one dispatch.
type Result struct {
	Response string `json:"response"`
	Intent   Intent `json:"intent"`
}

// ClientFactory builds a model client with the given sampling temperature.
// Passing the factory explicitly (rather than a shared singleton) lets tests
// substitute a scripted client.
type ClientFactory func(temperature float64) llm.Client

// Per-agent sampling temperatures.
const (
	tempRouter    = 0.1
	tempGeneral   = 0.1
	tempCourse    = 0.2
	tempDeadline  = 0.1
	tempRevision  = 0.4
	tempResearch  = 0.3
	tempGraph     = 0.2
	tempCollab    = 0.3
	tempAnalytics = 0.4
)
