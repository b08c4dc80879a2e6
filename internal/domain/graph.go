package domain

// GraphCategories is the closed set of node categories the graph agent asks
// the model for. Unknown categories fall back to "concept" at render time.
var GraphCategories = []string{
	"core", "concept", "method", "definition", "example", "person", "formula",
}

// GraphNode is one concept in a knowledge graph.
type GraphNode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Importance  int    `json:"importance"`
}

// GraphEdge is a directed relation between two nodes.
type GraphEdge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation,omitempty"`
	Strength int    `json:"strength"`
}

// Graph is a validated knowledge graph extracted from course material.
type Graph struct {
	Title string      `json:"title"`
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
	Error string      `json:"error,omitempty"`
}

// GraphStats summarises a graph for display next to the rendering.
type GraphStats struct {
	NodeCount   int            `json:"node_count"`
	EdgeCount   int            `json:"edge_count"`
	Categories  map[string]int `json:"categories"`
	TopConcepts []TopConcept   `json:"top_concepts"`
}

// TopConcept is a node label with its degree (in + out edges).
type TopConcept struct {
	Label  string `json:"label"`
	Degree int    `json:"degree"`
}
