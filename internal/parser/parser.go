package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Parse parses a JavaScript or TypeScript test file into a Program.
// The grammar is picked from the file extension. A source the grammar
// cannot parse without error recovery yields a *SyntaxError.
func Parse(ctx context.Context, filename string, content []byte) (*Program, error) {
	p := sitter.NewParser()
	p.SetLanguage(languageFor(filename))

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(filename, root, content)
	}

	c := converter{src: content}
	prog := &Program{}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if n := c.convert(root.NamedChild(i)); n != nil {
			prog.Body = append(prog.Body, n)
		}
	}
	return prog, nil
}

func languageFor(filename string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// syntaxError locates the first ERROR or MISSING node in source order.
func syntaxError(filename string, root *sitter.Node, content []byte) error {
	bad := firstError(root)
	if bad == nil {
		return &SyntaxError{File: filename, Line: int(root.StartPoint().Row) + 1}
	}
	near := bad.Content(content)
	if i := strings.IndexByte(near, '\n'); i >= 0 {
		near = near[:i]
	}
	if len(near) > 40 {
		near = near[:40]
	}
	return &SyntaxError{File: filename, Line: int(bad.StartPoint().Row) + 1, Near: near}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

type converter struct {
	src []byte
}

func (c converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

// convert maps a tree-sitter node onto the Node sum type. Comments
// convert to nil.
func (c converter) convert(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "comment":
		return nil
	case "call_expression":
		return c.call(n)
	case "member_expression":
		obj := c.convert(n.ChildByFieldName("object"))
		prop := n.ChildByFieldName("property")
		if obj == nil || prop == nil {
			return c.other(n)
		}
		return &MemberExpr{Object: obj, Property: c.text(prop)}
	case "identifier", "property_identifier", "shorthand_property_identifier", "this":
		return &Ident{Name: c.text(n)}
	case "string":
		return &StringLit{Value: c.literalValue(n)}
	case "template_string":
		if v, ok := c.templateValue(n); ok {
			return &StringLit{Value: v}
		}
		return c.other(n)
	case "regex":
		re := &RegexLit{}
		if p := n.ChildByFieldName("pattern"); p != nil {
			re.Pattern = c.text(p)
		}
		if f := n.ChildByFieldName("flags"); f != nil {
			re.Flags = c.text(f)
		}
		return re
	case "object":
		return c.object(n)
	case "array":
		return &ArrayLit{Elems: c.namedChildren(n)}
	case "await_expression":
		children := c.namedChildren(n)
		if len(children) == 0 {
			return c.other(n)
		}
		return &AwaitExpr{X: children[0]}
	case "parenthesized_expression", "non_null_expression":
		children := c.namedChildren(n)
		if len(children) == 1 {
			return children[0]
		}
		return c.other(n)
	default:
		return c.other(n)
	}
}

func (c converter) call(n *sitter.Node) Node {
	callee := c.convert(n.ChildByFieldName("function"))
	if callee == nil {
		return c.other(n)
	}
	call := &CallExpr{Callee: callee, Line: int(n.StartPoint().Row) + 1}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return call
	}
	if args.Type() != "arguments" {
		// tagged template: fn`text`
		if a := c.convert(args); a != nil {
			call.Args = append(call.Args, a)
		}
		return call
	}
	call.Args = c.namedChildren(args)
	return call
}

func (c converter) object(n *sitter.Node) Node {
	obj := &ObjectLit{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "pair":
			key := child.ChildByFieldName("key")
			val := c.convert(child.ChildByFieldName("value"))
			if key == nil || val == nil {
				continue
			}
			obj.Props = append(obj.Props, Prop{Key: c.propKey(key), Value: val})
		case "shorthand_property_identifier":
			name := c.text(child)
			obj.Props = append(obj.Props, Prop{Key: name, Value: &Ident{Name: name}})
		}
	}
	return obj
}

func (c converter) propKey(n *sitter.Node) string {
	if n.Type() == "string" {
		return c.literalValue(n)
	}
	return c.text(n)
}

func (c converter) other(n *sitter.Node) Node {
	return &Other{Kind: n.Type(), Children: c.namedChildren(n)}
}

func (c converter) namedChildren(n *sitter.Node) []Node {
	var out []Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := c.convert(n.NamedChild(i)); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// literalValue decodes the body of a string or template literal that sits
// between one-byte delimiters. Only escape_sequence children are rewritten,
// every other byte is copied as written.
func (c converter) literalValue(n *sitter.Node) string {
	start, end := n.StartByte()+1, n.EndByte()-1
	if end < start {
		return ""
	}
	var b strings.Builder
	pos := start
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "escape_sequence" {
			continue
		}
		b.Write(c.src[pos:child.StartByte()])
		b.WriteString(unescape(c.text(child)))
		pos = child.EndByte()
	}
	b.Write(c.src[pos:end])
	return b.String()
}

// templateValue returns the text of a template literal that has no
// ${...} substitutions.
func (c converter) templateValue(n *sitter.Node) (string, bool) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "template_substitution" {
			return "", false
		}
	}
	return c.literalValue(n), true
}

func unescape(seq string) string {
	if strings.HasPrefix(seq, "\\\n") || strings.HasPrefix(seq, "\\\r") {
		return "" // line continuation
	}
	if hex, ok := strings.CutPrefix(seq, `\u{`); ok {
		if r, err := strconv.ParseUint(strings.TrimSuffix(hex, "}"), 16, 32); err == nil {
			return string(rune(r))
		}
	}
	switch seq {
	case `\'`:
		return "'"
	case "\\`":
		return "`"
	case `\/`:
		return "/"
	}
	if s, err := strconv.Unquote(`"` + seq + `"`); err == nil {
		return s
	}
	return strings.TrimPrefix(seq, `\`)
}
