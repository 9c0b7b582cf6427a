package action

import (
	"strings"

	"github.com/chriserin/pwflow/internal/parser"
)

// Rules names the call shapes the classifier recognizes.
type Rules struct {
	TestFunction      string   // test('name', ...)
	AssertionFunction string   // expect(subject).predicate(...)
	ManualMarker      string   // substring of a test's tag marking it manual
	SchemePrefixes    []string // stripped from URL-looking strings
}

func DefaultRules() Rules {
	return Rules{
		TestFunction:      "test",
		AssertionFunction: "expect",
		ManualMarker:      "@manual",
		SchemePrefixes:    []string{"https://", "http://"},
	}
}

// Methods on the assertion entry point that start an assertion the same
// way a plain call does, e.g. expect.soft(page).toHaveURL(...).
var assertionVariants = map[string]bool{
	"soft": true,
	"poll": true,
}

// Classifier maps call expressions to actions. It only inspects literal
// shapes and never evaluates code.
type Classifier struct {
	rules Rules
}

func NewClassifier(r Rules) *Classifier {
	return &Classifier{rules: r}
}

// Classify returns the action the call at p denotes. The bool is false for
// calls that are not recognized, including assertions with no chained
// predicate.
func (c *Classifier) Classify(p *parser.Path) (Action, bool) {
	call, ok := p.Call()
	if !ok {
		return Action{}, false
	}

	switch callee := call.Callee.(type) {
	case *parser.Ident:
		switch callee.Name {
		case c.rules.TestFunction:
			return c.testStart(call)
		case c.rules.AssertionFunction:
			return c.assertion(p, call)
		}
	case *parser.MemberExpr:
		if c.isAssertionVariant(callee) {
			return c.assertion(p, call)
		}
		switch callee.Property {
		case "goto":
			return c.navigate(call), true
		case "click":
			return c.click(call, callee), true
		case "fill":
			return c.fill(call, callee), true
		}
	}
	return Action{}, false
}

func (c *Classifier) isAssertionVariant(m *parser.MemberExpr) bool {
	id, ok := m.Object.(*parser.Ident)
	return ok && id.Name == c.rules.AssertionFunction && assertionVariants[m.Property]
}

func (c *Classifier) testStart(call *parser.CallExpr) (Action, bool) {
	if len(call.Args) == 0 {
		return Action{}, false
	}
	name, ok := call.Args[0].(*parser.StringLit)
	if !ok {
		return Action{}, false
	}
	a := Action{Kind: TestStart, Target: name.Value, HasTarget: true, Line: call.Line}
	if len(call.Args) > 1 {
		if details, ok := call.Args[1].(*parser.ObjectLit); ok {
			a.Manual = c.taggedManual(details)
		}
	}
	return a, true
}

// taggedManual reports whether a test details object carries the manual
// marker in its tag property, given as a string or an array of strings.
func (c *Classifier) taggedManual(details *parser.ObjectLit) bool {
	if c.rules.ManualMarker == "" {
		return false
	}
	tag, ok := details.Prop("tag")
	if !ok {
		return false
	}
	switch v := tag.(type) {
	case *parser.StringLit:
		return strings.Contains(v.Value, c.rules.ManualMarker)
	case *parser.ArrayLit:
		for _, el := range v.Elems {
			if s, ok := el.(*parser.StringLit); ok && strings.Contains(s.Value, c.rules.ManualMarker) {
				return true
			}
		}
	}
	return false
}

func (c *Classifier) navigate(call *parser.CallExpr) Action {
	a := Action{Kind: Navigate, Line: call.Line}
	if len(call.Args) > 0 {
		if url, ok := stringArg(call.Args[0]); ok {
			a.Target, a.HasTarget = c.stripScheme(url), true
		}
	}
	return a
}

// click takes its selector from a string first argument, or from the
// receiver for locator-style calls such as page.getByRole('button').click()
// and page.getByRole('button').click({ force: true }).
func (c *Classifier) click(call *parser.CallExpr, callee *parser.MemberExpr) Action {
	a := Action{Kind: Click, Line: call.Line}
	if len(call.Args) > 0 {
		if sel, ok := stringArg(call.Args[0]); ok {
			a.Target, a.HasTarget = sel, true
			return a
		}
	}
	a.Target, a.HasTarget = locator(callee.Object)
	return a
}

// fill is fill(selector, text), or locator.fill(text) with an optional
// trailing options object.
func (c *Classifier) fill(call *parser.CallExpr, callee *parser.MemberExpr) Action {
	a := Action{Kind: Fill, Line: call.Line}
	args := call.Args
	if len(args) == 2 && isOptions(args[1]) {
		if _, ok := locator(callee.Object); ok {
			args = args[:1]
		}
	}
	switch len(args) {
	case 0:
	case 1:
		a.Target, a.HasTarget = locator(callee.Object)
		a.Value, a.HasValue = stringArg(args[0])
	default:
		a.Target, a.HasTarget = stringArg(args[0])
		a.Value, a.HasValue = stringArg(args[1])
	}
	return a
}

func isOptions(n parser.Node) bool {
	_, ok := n.(*parser.ObjectLit)
	return ok
}

func (c *Classifier) assertion(p *parser.Path, call *parser.CallExpr) (Action, bool) {
	pred, ok := findPredicate(p)
	if !ok {
		return Action{}, false
	}

	a := Action{Kind: Assert, Value: pred.name, HasValue: true, Line: call.Line}
	if len(call.Args) > 0 {
		if d, ok := c.detail(call.Args[0]); ok {
			a.Target, a.HasTarget = d.text, true
		}
	}
	if len(pred.call.Args) > 0 {
		if d, ok := c.detail(pred.call.Args[0]); ok && d.specific {
			a.Target, a.HasTarget = d.text, true
		}
	}
	return a, true
}

type predicate struct {
	call *parser.CallExpr
	name string
}

// findPredicate scans upward from an assertion entry call through the
// member chain built on it. The first call whose callee is that chain is
// the predicate; member names passed on the way ("not", "resolves")
// prefix the predicate name.
func findPredicate(p *parser.Path) (predicate, bool) {
	var chain []string
	child := p.Node()
	for anc := p.Parent(); anc != nil; anc = anc.Parent() {
		switch n := anc.Node().(type) {
		case *parser.MemberExpr:
			chain = append(chain, n.Property)
		case *parser.AwaitExpr:
		case *parser.CallExpr:
			m, ok := n.Callee.(*parser.MemberExpr)
			if !ok || n.Callee != child {
				return predicate{}, false
			}
			mods := chain[:len(chain)-1]
			return predicate{call: n, name: strings.Join(append(mods, m.Property), " ")}, true
		default:
			return predicate{}, false
		}
		child = anc.Node()
	}
	return predicate{}, false
}

type detail struct {
	text string
	// specific is true for literals and text queries, which override a
	// detail taken from the assertion subject.
	specific bool
}

func (c *Classifier) detail(n parser.Node) (detail, bool) {
	switch v := n.(type) {
	case *parser.StringLit:
		return detail{text: c.stripScheme(v.Value), specific: true}, true
	case *parser.RegexLit:
		return detail{text: regexText(v), specific: true}, true
	case *parser.CallExpr:
		if _, ok := v.Callee.(*parser.MemberExpr); !ok {
			return detail{}, false
		}
		if len(v.Args) > 0 {
			switch q := v.Args[0].(type) {
			case *parser.StringLit:
				return detail{text: "'" + c.stripScheme(q.Value) + "'", specific: true}, true
			case *parser.RegexLit:
				return detail{text: regexText(q), specific: true}, true
			}
		}
		return detail{text: "subject"}, true
	case *parser.MemberExpr:
		return detail{text: "subject"}, true
	}
	return detail{}, false
}

func (c *Classifier) stripScheme(s string) string {
	lower := strings.ToLower(s)
	for _, prefix := range c.rules.SchemePrefixes {
		if prefix != "" && strings.HasPrefix(lower, strings.ToLower(prefix)) {
			return s[len(prefix):]
		}
	}
	return s
}

func stringArg(n parser.Node) (string, bool) {
	if s, ok := n.(*parser.StringLit); ok {
		return s.Value, true
	}
	return "", false
}

func regexText(r *parser.RegexLit) string {
	return "/" + r.Pattern + "/" + r.Flags
}

// locator describes a locator-returning call like getByRole('button').
func locator(n parser.Node) (string, bool) {
	call, ok := n.(*parser.CallExpr)
	if !ok || len(call.Args) == 0 {
		return "", false
	}
	m, ok := call.Callee.(*parser.MemberExpr)
	if !ok {
		return "", false
	}
	switch q := call.Args[0].(type) {
	case *parser.StringLit:
		return m.Property + "('" + q.Value + "')", true
	case *parser.RegexLit:
		return m.Property + "(" + regexText(q) + ")", true
	}
	return "", false
}
