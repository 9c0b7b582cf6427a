package parser

import "fmt"

// Node is one syntax node of a parsed test file. The set of concrete
// types is closed; everything the classifier has no rule for is Other.
type Node interface {
	node()
}

type Program struct {
	Body []Node
}

type CallExpr struct {
	Callee Node
	Args   []Node
	Line   int // 1-based line number of the call
}

// MemberExpr is a non-computed property access, e.g. page.goto.
type MemberExpr struct {
	Object   Node
	Property string
}

type Ident struct {
	Name string
}

// StringLit holds the decoded value of a quoted string or of a template
// literal without substitutions.
type StringLit struct {
	Value string
}

type RegexLit struct {
	Pattern string
	Flags   string
}

type ObjectLit struct {
	Props []Prop
}

type Prop struct {
	Key   string
	Value Node
}

type ArrayLit struct {
	Elems []Node
}

type AwaitExpr struct {
	X Node
}

// Other is any syntax without a dedicated type. Kind is the grammar's
// node type name; Children are the named children in source order.
type Other struct {
	Kind     string
	Children []Node
}

func (*Program) node()    {}
func (*CallExpr) node()   {}
func (*MemberExpr) node() {}
func (*Ident) node()      {}
func (*StringLit) node()  {}
func (*RegexLit) node()   {}
func (*ObjectLit) node()  {}
func (*ArrayLit) node()   {}
func (*AwaitExpr) node()  {}
func (*Other) node()      {}

// Prop returns the value of the first property named key.
func (o *ObjectLit) Prop(key string) (Node, bool) {
	for _, p := range o.Props {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// SyntaxError reports a source file the grammar could not parse.
type SyntaxError struct {
	File string
	Line int
	Near string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("%s:%d: syntax error", e.File, e.Line)
	}
	return fmt.Sprintf("%s:%d: syntax error near %q", e.File, e.Line, e.Near)
}
