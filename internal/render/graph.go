// Package render turns knowledge graphs into self-contained HTML pages.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"studymate/internal/domain"
)

var categoryColors = map[string]string{
	"core":       "#6366f1",
	"concept":    "#38bdf8",
	"method":     "#34d399",
	"definition": "#f59e0b",
	"example":    "#f472b6",
	"person":     "#a78bfa",
	"formula":    "#fb923c",
}

var categoryShapes = map[string]string{
	"core":       "star",
	"concept":    "dot",
	"method":     "diamond",
	"definition": "square",
	"example":    "triangle",
	"person":     "ellipse",
	"formula":    "database",
}

type visNode struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Title string         `json:"title"`
	Color map[string]any `json:"color"`
	Size  int            `json:"size"`
	Shape string         `json:"shape"`
	Font  map[string]any `json:"font"`
}

type visEdge struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Label string         `json:"label"`
	Width float64        `json:"width"`
	Color map[string]any `json:"color"`
}

// GraphHTML renders a validated graph as a standalone vis-network page.
func GraphHTML(g *domain.Graph) (string, error) {
	if g == nil || len(g.Nodes) == 0 {
		return "<p>No graph data to display.</p>", nil
	}

	nodes := make([]visNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		color, ok := categoryColors[n.Category]
		if !ok {
			color = categoryColors["concept"]
		}
		shape, ok := categoryShapes[n.Category]
		if !ok {
			shape = categoryShapes["concept"]
		}
		fontSize := n.Importance*2 + 8
		if fontSize < 11 {
			fontSize = 11
		}
		nodes = append(nodes, visNode{
			ID:    n.ID,
			Label: n.Label,
			Title: fmt.Sprintf("%s (%s) %s", n.Label, n.Category, n.Description),
			Color: map[string]any{
				"background": color,
				"border":     "#ffffff30",
				"highlight":  map[string]any{"background": color, "border": "#ffffff"},
				"hover":      map[string]any{"background": color, "border": "#ffffff80"},
			},
			// Importance drives node size: 1 renders at 15px, 5 at 43px.
			Size:  15 + (n.Importance-1)*7,
			Shape: shape,
			Font:  map[string]any{"color": "#1e293b", "size": fontSize},
		})
	}

	edges := make([]visEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, visEdge{
			From:  e.Source,
			To:    e.Target,
			Label: e.Relation,
			Width: float64(e.Strength) * 1.5,
			Color: map[string]any{"color": "#4f6272", "highlight": "#818cf8", "hover": "#818cf8"},
		})
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return "", fmt.Errorf("marshal nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return "", fmt.Errorf("marshal edges: %w", err)
	}

	var b strings.Builder
	err = graphTemplate.Execute(&b, struct {
		Title string
		Nodes template.JS
		Edges template.JS
	}{
		Title: g.Title,
		Nodes: template.JS(nodesJSON),
		Edges: template.JS(edgesJSON),
	})
	if err != nil {
		return "", fmt.Errorf("render graph page: %w", err)
	}
	return b.String(), nil
}

var graphTemplate = template.Must(template.New("graph").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
<style>
  body { margin: 0; background: #ffffff; font-family: Inter, sans-serif; }
  #graph { width: 100%; height: 620px; }
</style>
</head>
<body>
<div id="graph"></div>
<script>
  var nodes = new vis.DataSet({{.Nodes}});
  var edges = new vis.DataSet({{.Edges}});
  var container = document.getElementById("graph");
  var options = {
    physics: {
      enabled: true,
      forceAtlas2Based: {
        gravitationalConstant: -80,
        centralGravity: 0.01,
        springLength: 120,
        springConstant: 0.08,
        damping: 0.6
      },
      solver: "forceAtlas2Based",
      stabilization: { iterations: 150 }
    },
    edges: {
      arrows: { to: { enabled: true, scaleFactor: 0.6 } },
      smooth: { type: "dynamic" },
      font: { size: 10, color: "#64748b", strokeWidth: 0 },
      color: { opacity: 0.7 }
    },
    nodes: {
      font: { size: 13, face: "Inter, sans-serif" },
      borderWidth: 2,
      shadow: true
    },
    interaction: {
      hover: true,
      tooltipDelay: 100,
      navigationButtons: false,
      keyboard: true
    }
  };
  new vis.Network(container, { nodes: nodes, edges: edges }, options);
</script>
</body>
</html>
`))
