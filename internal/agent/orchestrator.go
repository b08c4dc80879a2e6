package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"studymate/internal/domain"
	"studymate/internal/search"
	"studymate/internal/store"
)

// handlerFunc is the shared handler contract: one user message plus the
// per-dispatch state in, one response string out.
type handlerFunc func(ctx context.Context, st *State) (string, error)

// Orchestrator runs the per-turn dispatch loop: side-channel check, routing,
// then exactly one handler invocation. It holds no per-turn state; every
// Dispatch builds a fresh State and discards it.
type Orchestrator struct {
	clients   ClientFactory
	router    intentRouter
	deadlines store.DeadlineStore
	searcher  search.Searcher
	searchMax int
	handlers  map[Intent]handlerFunc
	now       func() time.Time
}

// NewOrchestrator wires the router and all handlers. The searcher may be nil;
// the research handler then proceeds without web context.
func NewOrchestrator(clients ClientFactory, deadlines store.DeadlineStore, searcher search.Searcher) *Orchestrator {
	o := &Orchestrator{
		clients:   clients,
		router:    NewRouter(clients),
		deadlines: deadlines,
		searcher:  searcher,
		searchMax: defaultSearchResults,
		now:       time.Now,
	}
	o.handlers = map[Intent]handlerFunc{
		IntentGeneral:  o.handleGeneral,
		IntentCourse:   o.handleCourse,
		IntentDeadline: o.handleDeadline,
		IntentRevision: o.handleRevision,
		IntentResearch: o.handleResearch,
		IntentGraph:    o.handleGraphChat,
	}
	return o
}

// SetSearchLimit overrides how many web results the research handler requests
// per query. Non-positive values are ignored.
func (o *Orchestrator) SetSearchLimit(n int) {
	if n > 0 {
		o.searchMax = n
	}
}

// Dispatch processes one turn. When a side channel names a destination
// handler the router is skipped entirely; otherwise the latest user message
// is routed. Model-client failures propagate to the caller, which presents
// the error and keeps the turn history for retry.
func (o *Orchestrator) Dispatch(ctx context.Context, turns []domain.Turn, side *SideChannel) (Result, error) {
	st := &State{Turns: turns, Side: side}

	switch {
	case side != nil && (side.Intent == IntentCourse || side.Intent == IntentRevision):
		st.Intent = side.Intent
	default:
		intent, err := o.router.Route(ctx, st.lastUserMessage())
		if err != nil {
			return Result{}, err
		}
		st.Intent = intent
	}

	handler, ok := o.handlers[st.Intent]
	if !ok {
		st.Intent = IntentGeneral
		handler = o.handlers[IntentGeneral]
	}

	start := o.now()
	response, err := handler(ctx, st)
	if err != nil {
		return Result{}, fmt.Errorf("%s handler: %w", st.Intent, err)
	}

	slog.Info("dispatch complete",
		"intent", st.Intent,
		"forced", side != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return Result{Response: response, Intent: st.Intent}, nil
}
