package flow

import "github.com/chriserin/pwflow/internal/action"

// Diagram is the intermediate representation handed to renderers.
type Diagram struct {
	Sections []*Section
}

// Section is one test case subgraph, or a run of statements emitted
// outside any test case (hooks, top-level helpers) when Test is false.
type Section struct {
	Test   bool
	Name   string
	Manual bool
	Line   int
	Body   []Statement
}

// Label is the subgraph title.
func (s *Section) Label() string {
	if s.Manual {
		return "Manual test - " + s.Name
	}
	return s.Name
}

type StatementKind int

const (
	DeclareNode StatementKind = iota
	DeclareEdge
)

// Statement is a node declaration or an edge, in emission order.
type Statement struct {
	Kind StatementKind
	Node *Node
	Edge Edge
}

type Node struct {
	ID    string
	Kind  action.Kind
	Icon  string
	Label string
}

type Edge struct {
	From string
	To   string
}

// Stats summarizes a diagram.
type Stats struct {
	Tests  int
	Manual int
	Nodes  int
	Edges  int
}

func (d *Diagram) Stats() Stats {
	var st Stats
	for _, s := range d.Sections {
		if s.Test {
			st.Tests++
			if s.Manual {
				st.Manual++
			}
		}
		for _, stmt := range s.Body {
			switch stmt.Kind {
			case DeclareNode:
				st.Nodes++
			case DeclareEdge:
				st.Edges++
			}
		}
	}
	return st
}

// Tests returns the test case sections in source order.
func (d *Diagram) Tests() []*Section {
	var out []*Section
	for _, s := range d.Sections {
		if s.Test {
			out = append(out, s)
		}
	}
	return out
}

// StepCount is the number of nodes a section references, declared or
// reused.
func (s *Section) StepCount() int {
	seen := map[string]bool{}
	for _, stmt := range s.Body {
		switch stmt.Kind {
		case DeclareNode:
			seen[stmt.Node.ID] = true
		case DeclareEdge:
			seen[stmt.Edge.From] = true
			seen[stmt.Edge.To] = true
		}
	}
	return len(seen)
}
