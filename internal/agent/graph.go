package agent

import (
	"context"
	"fmt"
	"sort"

	"studymate/internal/domain"
	"studymate/internal/extract"
	"studymate/internal/llm"
)

const graphContentLimit = 10000

// BuildGraph extracts a knowledge graph from course material. The returned
// graph is validated: nodes without an id are dropped, duplicate ids keep
// the first occurrence, and edges referencing a missing node are removed.
// A graph is never returned alongside an error; failures surface in the
// Error field so callers can show them inline.
func (o *Orchestrator) BuildGraph(ctx context.Context, material string) (*domain.Graph, error) {
	if material == "" {
		return &domain.Graph{Error: "No content provided."}, nil
	}

	raw, err := o.clients(tempGraph).Invoke(ctx, []llm.Message{
		llm.System(graphPrompt),
		llm.User(fmt.Sprintf("Extract a knowledge graph from this material:\n\n%s",
			truncate(material, graphContentLimit))),
	})
	if err != nil {
		return nil, fmt.Errorf("graph extraction: %w", err)
	}

	var g domain.Graph
	if !extract.Into(raw, &g) || len(g.Nodes) == 0 {
		return &domain.Graph{Error: "Could not extract a graph from this material."}, nil
	}
	validateGraph(&g)
	return &g, nil
}

func validateGraph(g *domain.Graph) {
	known := make(map[string]bool, len(g.Nodes))
	valid := make(map[string]bool, len(domain.GraphCategories))
	for _, c := range domain.GraphCategories {
		valid[c] = true
	}

	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if n.ID == "" || known[n.ID] {
			continue
		}
		known[n.ID] = true
		if !valid[n.Category] {
			n.Category = "concept"
		}
		if n.Importance < 1 || n.Importance > 5 {
			n.Importance = 3
		}
		nodes = append(nodes, n)
	}
	g.Nodes = nodes

	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		if e.Strength < 1 || e.Strength > 3 {
			e.Strength = 2
		}
		edges = append(edges, e)
	}
	g.Edges = edges
}

// GraphStats computes display statistics for a validated graph.
func GraphStats(g *domain.Graph) domain.GraphStats {
	stats := domain.GraphStats{
		NodeCount:  len(g.Nodes),
		EdgeCount:  len(g.Edges),
		Categories: make(map[string]int),
	}

	degree := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		degree[e.Source]++
		degree[e.Target]++
	}
	for _, n := range g.Nodes {
		stats.Categories[n.Category]++
		stats.TopConcepts = append(stats.TopConcepts, domain.TopConcept{
			Label:  n.Label,
			Degree: degree[n.ID],
		})
	}
	sort.SliceStable(stats.TopConcepts, func(i, j int) bool {
		return stats.TopConcepts[i].Degree > stats.TopConcepts[j].Degree
	})
	if len(stats.TopConcepts) > 5 {
		stats.TopConcepts = stats.TopConcepts[:5]
	}
	return stats
}

// handleGraphChat answers graph-intent chat messages. Graph construction
// runs on its own endpoint against uploaded material, so chat only points
// the user there.
func (o *Orchestrator) handleGraphChat(ctx context.Context, st *State) (string, error) {
	return "🕸️ **Knowledge Graph**\n\nTo build a knowledge graph, upload your course material " +
		"(PDF, slides, or a URL) and I'll map out the concepts and how they connect. " +
		"Head to the graph view and add your material there!", nil
}
