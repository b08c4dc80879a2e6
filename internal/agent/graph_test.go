package agent

import (
	"context"
	"testing"

	"studymate/internal/llm"
)

func TestBuildGraphDropsDanglingEdges(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(`{
		"title": "Thermodynamics",
		"nodes": [
			{"id": "entropy", "label": "Entropy", "category": "core", "importance": 5},
			{"id": "second_law", "label": "Second Law", "category": "concept", "importance": 4}
		],
		"edges": [
			{"source": "second_law", "target": "entropy", "relation": "defined by", "strength": 3},
			{"source": "entropy", "target": "heat_death", "relation": "leads to", "strength": 2}
		]
	}`)
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, nil)

	g, err := o.BuildGraph(context.Background(), "Lecture notes on thermodynamics...")
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if g.Error != "" {
		t.Fatalf("unexpected graph error %q", g.Error)
	}
	if len(g.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(g.Nodes))
	}
	// The heat_death edge references a node that does not exist.
	if len(g.Edges) != 1 {
		t.Fatalf("edges = %d, want 1 after validation", len(g.Edges))
	}
	if g.Edges[0].Source != "second_law" || g.Edges[0].Target != "entropy" {
		t.Errorf("kept wrong edge: %+v", g.Edges[0])
	}
}

func TestBuildGraphNormalizesFields(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(`{
		"title": "T",
		"nodes": [
			{"id": "a", "label": "A", "category": "mystery", "importance": 99},
			{"id": "a", "label": "A duplicate", "category": "core", "importance": 1},
			{"id": "", "label": "anonymous", "category": "core", "importance": 3}
		],
		"edges": [{"source": "a", "target": "a", "relation": "self", "strength": 0}]
	}`)
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, nil)

	g, err := o.BuildGraph(context.Background(), "notes")
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if len(g.Nodes) != 1 {
		t.Fatalf("nodes = %d, want 1 (duplicate and empty ids dropped)", len(g.Nodes))
	}
	n := g.Nodes[0]
	if n.Category != "concept" {
		t.Errorf("unknown category kept: %q", n.Category)
	}
	if n.Importance != 3 {
		t.Errorf("out-of-range importance = %d, want 3", n.Importance)
	}
	if len(g.Edges) != 1 || g.Edges[0].Strength != 2 {
		t.Errorf("edge not normalized: %+v", g.Edges)
	}
}

func TestBuildGraphUnparseableReply(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock("I couldn't find any concepts in this text.")
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, nil)

	g, err := o.BuildGraph(context.Background(), "gibberish")
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if g.Error == "" {
		t.Error("expected an inline graph error")
	}
}

func TestBuildGraphEmptyMaterial(t *testing.T) {
	t.Parallel()

	o := NewOrchestrator(mockFactory(llm.NewMock("unused")), &deadlineSpy{}, nil)
	g, err := o.BuildGraph(context.Background(), "")
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if g.Error == "" {
		t.Error("expected an inline graph error for empty material")
	}
}

func TestGraphStatsTopConcepts(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(`{
		"title": "Sorting",
		"nodes": [
			{"id": "sort", "label": "Sorting", "category": "core", "importance": 5},
			{"id": "quick", "label": "Quicksort", "category": "method", "importance": 4},
			{"id": "merge", "label": "Mergesort", "category": "method", "importance": 4}
		],
		"edges": [
			{"source": "quick", "target": "sort", "relation": "is a type of", "strength": 3},
			{"source": "merge", "target": "sort", "relation": "is a type of", "strength": 3}
		]
	}`)
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, nil)

	g, err := o.BuildGraph(context.Background(), "sorting notes")
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}

	stats := GraphStats(g)
	if stats.NodeCount != 3 || stats.EdgeCount != 2 {
		t.Errorf("counts = %d/%d", stats.NodeCount, stats.EdgeCount)
	}
	if stats.Categories["method"] != 2 || stats.Categories["core"] != 1 {
		t.Errorf("categories = %v", stats.Categories)
	}
	if len(stats.TopConcepts) == 0 || stats.TopConcepts[0].Label != "Sorting" {
		t.Errorf("top concepts = %+v, want Sorting first (degree 2)", stats.TopConcepts)
	}
}
