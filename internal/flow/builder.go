package flow

import (
	"fmt"
	"strings"

	"github.com/chriserin/pwflow/internal/action"
)

// Scope controls how far navigate, click and fill deduplication reaches.
type Scope int

const (
	// ScopeTest reuses nodes only within one test case.
	ScopeTest Scope = iota
	// ScopeRun reuses nodes across every test case of the file, so a later
	// subgraph can point at a node declared in an earlier one.
	ScopeRun
)

func ParseScope(s string) (Scope, error) {
	switch s {
	case "", "test":
		return ScopeTest, nil
	case "run":
		return ScopeRun, nil
	default:
		return 0, fmt.Errorf("unknown dedup scope %q (want \"test\" or \"run\")", s)
	}
}

func (s Scope) String() string {
	if s == ScopeRun {
		return "run"
	}
	return "test"
}

type nodeStyle struct {
	prefix string
	icon   string
}

var styles = map[action.Kind]nodeStyle{
	action.Navigate: {prefix: "B", icon: "fa:fa-globe"},
	action.Click:    {prefix: "C", icon: "fa:fa-mouse-pointer"},
	action.Fill:     {prefix: "D", icon: "fa:fa-keyboard"},
	action.Assert:   {prefix: "E", icon: "fa:fa-check"},
}

const dynamic = "(dynamic)"

type builderState int

const (
	idle builderState = iota
	inSubgraph
	closed
)

// Builder turns a stream of actions into a Diagram. It owns all per-run
// state: the step counter, the dedup table and the last node of the
// current section. A Builder serves exactly one run.
type Builder struct {
	scope   Scope
	state   builderState
	diagram *Diagram
	section *Section
	last    string
	seen    map[action.Key]string
	edges   map[Edge]bool // edges already drawn in this section; a revisit draws none
	step    int
}

func NewBuilder(scope Scope) *Builder {
	return &Builder{
		scope:   scope,
		diagram: &Diagram{},
		seen:    map[action.Key]string{},
		step:    1,
	}
}

// Add feeds one classified action. Input after Close is ignored.
func (b *Builder) Add(a action.Action) {
	if b.state == closed {
		return
	}
	switch a.Kind {
	case action.TestStart:
		b.openTest(a)
	case action.Navigate, action.Click, action.Fill:
		b.addStep(a)
	case action.Assert:
		b.addAssertion(a)
	}
}

// CloseTest ends the current test case subgraph, if one is open.
func (b *Builder) CloseTest() {
	if b.state != inSubgraph {
		return
	}
	b.section = nil
	b.last = ""
	b.state = idle
}

// Close finalizes the run and returns the diagram.
func (b *Builder) Close() *Diagram {
	b.CloseTest()
	b.state = closed
	return b.diagram
}

func (b *Builder) openTest(a action.Action) {
	b.CloseTest()
	b.startSection(&Section{Test: true, Name: a.Target, Manual: a.Manual, Line: a.Line})
	b.state = inSubgraph
}

func (b *Builder) startSection(s *Section) {
	b.diagram.Sections = append(b.diagram.Sections, s)
	b.section = s
	b.last = ""
	b.edges = map[Edge]bool{}
	if b.scope == ScopeTest {
		b.seen = map[action.Key]string{}
	}
}

// current returns the open section, starting an untitled one for actions
// seen outside any test case.
func (b *Builder) current() *Section {
	if b.section == nil {
		b.startSection(&Section{})
	}
	return b.section
}

func (b *Builder) addStep(a action.Action) {
	s := b.current()
	key, dedup := a.Key()
	if dedup {
		if id, ok := b.seen[key]; ok {
			b.link(s, id)
			return
		}
	}
	id := b.declare(s, a)
	if dedup {
		b.seen[key] = id
	}
	b.link(s, id)
}

// addAssertion always declares a new node; repeated assertions are
// distinct steps.
func (b *Builder) addAssertion(a action.Action) {
	s := b.current()
	id := b.declare(s, a)
	b.link(s, id)
}

func (b *Builder) declare(s *Section, a action.Action) string {
	st := styles[a.Kind]
	n := &Node{
		ID:    fmt.Sprintf("%s%d", st.prefix, b.step),
		Kind:  a.Kind,
		Icon:  st.icon,
		Label: label(a),
	}
	b.step++
	s.Body = append(s.Body, Statement{Kind: DeclareNode, Node: n})
	return n.ID
}

// link adds an edge from the last node to id, then makes id the last
// node. A missing last node, a self-edge or a repeated edge emits nothing.
func (b *Builder) link(s *Section, id string) {
	if b.last != "" && b.last != id {
		e := Edge{From: b.last, To: id}
		if !b.edges[e] {
			b.edges[e] = true
			s.Body = append(s.Body, Statement{Kind: DeclareEdge, Edge: e})
		}
	}
	b.last = id
}

func label(a action.Action) string {
	switch a.Kind {
	case action.Navigate:
		return "Navigate to " + orDynamic(a.Target, a.HasTarget)
	case action.Click:
		return "Click " + orDynamic(a.Target, a.HasTarget)
	case action.Fill:
		return fmt.Sprintf("Fill %s with '%s'", orDynamic(a.Target, a.HasTarget), orDynamic(a.Value, a.HasValue))
	case action.Assert:
		parts := []string{"Assertion:"}
		if a.HasTarget && a.Target != "" {
			parts = append(parts, a.Target)
		}
		parts = append(parts, a.Value)
		return strings.Join(parts, " ")
	default:
		return a.Target
	}
}

func orDynamic(s string, ok bool) string {
	if !ok {
		return dynamic
	}
	return s
}
