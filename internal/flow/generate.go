package flow

import (
	"context"
	"fmt"

	"github.com/chriserin/pwflow/internal/action"
	"github.com/chriserin/pwflow/internal/ctxlog"
	"github.com/chriserin/pwflow/internal/parser"
)

type Options struct {
	Rules action.Rules
	Scope Scope
}

func DefaultOptions() Options {
	return Options{Rules: action.DefaultRules(), Scope: ScopeTest}
}

// Generate parses one test file and builds its diagram. Each call is an
// isolated run with its own builder state.
func Generate(ctx context.Context, filename string, src []byte, opts Options) (*Diagram, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)

	prog, err := parser.Parse(ctx, filename, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	classifier := action.NewClassifier(opts.Rules)
	builder := NewBuilder(opts.Scope)

	// open is the test declaration call whose subtree is being walked.
	var open *parser.CallExpr
	parser.Walk(prog, func(ev parser.Event, p *parser.Path) {
		call, _ := p.Call()
		if ev == parser.LeaveCall {
			if call == open {
				builder.CloseTest()
				open = nil
			}
			return
		}

		a, ok := classifier.Classify(p)
		if !ok {
			logger.Debug("call not recognized", "line", call.Line, "callee", calleeName(call.Callee))
			return
		}
		if a.Kind == action.TestStart {
			open = call
		}
		logger.Debug("action", "kind", a.Kind, "line", a.Line, "target", a.Target)
		builder.Add(a)
	})

	d := builder.Close()
	st := d.Stats()
	logger.Info("diagram built", "tests", st.Tests, "nodes", st.Nodes, "edges", st.Edges)
	return d, nil
}

func calleeName(n parser.Node) string {
	switch v := n.(type) {
	case *parser.Ident:
		return v.Name
	case *parser.MemberExpr:
		return calleeName(v.Object) + "." + v.Property
	case *parser.CallExpr:
		return calleeName(v.Callee) + "()"
	default:
		return "?"
	}
}
