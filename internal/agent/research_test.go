package agent

import (
	"context"
	"strings"
	"testing"

	"studymate/internal/llm"
	"studymate/internal/search"
)

type stubSearcher struct {
	results []search.Result
	queries []string
	maxes   []int
}

func (s *stubSearcher) Search(_ context.Context, query string, max int) []search.Result {
	s.queries = append(s.queries, query)
	s.maxes = append(s.maxes, max)
	if len(s.results) > max {
		return s.results[:max]
	}
	return s.results
}

func TestResearchWithResults(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{results: []search.Result{
		{Title: "Bayes' theorem", URL: "https://example.edu/bayes", Snippet: "Conditional probability..."},
		{Title: "Prior and posterior", URL: "https://example.edu/priors", Snippet: "Updating beliefs..."},
	}}
	mock := llm.NewMock(
		`{"intent": "research", "reasoning": "academic question"}`,
		"Bayes' theorem updates a prior with evidence.",
	)
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, searcher)

	res, err := o.Dispatch(context.Background(), userTurns("explain Bayes' theorem with sources"), nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(searcher.queries) != 1 {
		t.Fatalf("search called %d times, want 1", len(searcher.queries))
	}
	if !strings.Contains(res.Response, "**Sources:**") {
		t.Errorf("response missing sources appendix:\n%s", res.Response)
	}
	if !strings.Contains(res.Response, "https://example.edu/bayes") {
		t.Errorf("response missing source link:\n%s", res.Response)
	}
	if !strings.Contains(mock.LastPrompt(), "Conditional probability") {
		t.Error("handler prompt missing search snippets")
	}
}

func TestResearchSourcesCappedAtThree(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{results: []search.Result{
		{Title: "r1", URL: "https://e.edu/1"}, {Title: "r2", URL: "https://e.edu/2"},
		{Title: "r3", URL: "https://e.edu/3"}, {Title: "r4", URL: "https://e.edu/4"},
		{Title: "r5", URL: "https://e.edu/5"},
	}}
	mock := llm.NewMock(
		`{"intent": "research", "reasoning": "q"}`,
		"Answer.",
	)
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, searcher)

	res, err := o.Dispatch(context.Background(), userTurns("find papers on sorting"), nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if strings.Contains(res.Response, "https://e.edu/4") {
		t.Errorf("more than three sources listed:\n%s", res.Response)
	}
	if !strings.Contains(res.Response, "https://e.edu/3") {
		t.Errorf("third source missing:\n%s", res.Response)
	}
}

func TestResearchUsesConfiguredResultLimit(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{results: []search.Result{
		{Title: "r1", URL: "https://e.edu/1"}, {Title: "r2", URL: "https://e.edu/2"},
		{Title: "r3", URL: "https://e.edu/3"},
	}}
	mock := llm.NewMock(
		`{"intent": "research", "reasoning": "q"}`, "Answer.",
		`{"intent": "research", "reasoning": "q"}`, "Answer.",
		`{"intent": "research", "reasoning": "q"}`, "Answer.",
	)
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, searcher)

	if _, err := o.Dispatch(context.Background(), userTurns("find sources on osmosis"), nil); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(searcher.maxes) != 1 || searcher.maxes[0] != defaultSearchResults {
		t.Fatalf("search max = %v, want default %d", searcher.maxes, defaultSearchResults)
	}

	o.SetSearchLimit(2)
	if _, err := o.Dispatch(context.Background(), userTurns("find sources on diffusion"), nil); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if got := searcher.maxes[len(searcher.maxes)-1]; got != 2 {
		t.Errorf("search max after SetSearchLimit(2) = %d, want 2", got)
	}

	// A bogus limit must not clobber a working one.
	o.SetSearchLimit(0)
	if _, err := o.Dispatch(context.Background(), userTurns("find sources on mitosis"), nil); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if got := searcher.maxes[len(searcher.maxes)-1]; got != 2 {
		t.Errorf("search max after SetSearchLimit(0) = %d, want 2", got)
	}
}

func TestResearchDegradesWithoutSearcher(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(
		`{"intent": "research", "reasoning": "q"}`,
		"From my own knowledge: quicksort averages O(n log n).",
	)
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, nil)

	res, err := o.Dispatch(context.Background(), userTurns("how fast is quicksort?"), nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if strings.Contains(res.Response, "**Sources:**") {
		t.Error("sources appendix present without search results")
	}
	if !strings.Contains(mock.LastPrompt(), "No web results were available") {
		t.Error("prompt should mark the no-results path")
	}
}
