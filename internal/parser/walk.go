package parser

// Event tells a VisitFunc which side of a call's subtree it is on.
type Event int

const (
	EnterCall Event = iota
	LeaveCall
)

// Path is a node together with its chain of ancestors.
type Path struct {
	node   Node
	parent *Path
}

func (p *Path) Node() Node { return p.node }

// Parent returns the enclosing path, or nil at the root.
func (p *Path) Parent() *Path { return p.parent }

// Call returns the node as a call expression.
func (p *Path) Call() (*CallExpr, bool) {
	c, ok := p.node.(*CallExpr)
	return c, ok
}

type VisitFunc func(ev Event, p *Path)

// Walk traverses root depth-first in source order. Every call expression
// gets EnterCall before its subtree is visited and LeaveCall after.
// A call's callee is visited before its arguments.
func Walk(root Node, visit VisitFunc) {
	walk(&Path{node: root}, visit)
}

func walk(p *Path, visit VisitFunc) {
	_, isCall := p.node.(*CallExpr)
	if isCall {
		visit(EnterCall, p)
	}
	for _, child := range children(p.node) {
		walk(&Path{node: child, parent: p}, visit)
	}
	if isCall {
		visit(LeaveCall, p)
	}
}

func children(n Node) []Node {
	switch n := n.(type) {
	case *Program:
		return n.Body
	case *CallExpr:
		return append([]Node{n.Callee}, n.Args...)
	case *MemberExpr:
		return []Node{n.Object}
	case *ObjectLit:
		out := make([]Node, 0, len(n.Props))
		for _, p := range n.Props {
			out = append(out, p.Value)
		}
		return out
	case *ArrayLit:
		return n.Elems
	case *AwaitExpr:
		return []Node{n.X}
	case *Other:
		return n.Children
	default:
		return nil
	}
}
