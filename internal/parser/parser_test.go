package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, filename, src string) *Program {
	t.Helper()
	prog, err := Parse(context.Background(), filename, []byte(src))
	require.NoError(t, err)
	return prog
}

func calls(prog *Program) []*CallExpr {
	var out []*CallExpr
	Walk(prog, func(ev Event, p *Path) {
		if ev != EnterCall {
			return
		}
		c, _ := p.Call()
		out = append(out, c)
	})
	return out
}

func TestParse_MemberCall(t *testing.T) {
	prog := parse(t, "example.test.js", `page.goto('https://mywebsite.com');`)

	cs := calls(prog)
	require.Len(t, cs, 1)
	m, ok := cs[0].Callee.(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "goto", m.Property)
	assert.Equal(t, &Ident{Name: "page"}, m.Object)
	require.Len(t, cs[0].Args, 1)
	assert.Equal(t, &StringLit{Value: "https://mywebsite.com"}, cs[0].Args[0])
	assert.Equal(t, 1, cs[0].Line)
}

func TestParse_CallLineNumbers(t *testing.T) {
	prog := parse(t, "example.test.js", "// header\n\npage.click('#a');\npage.click('#b');\n")

	cs := calls(prog)
	require.Len(t, cs, 2)
	assert.Equal(t, 3, cs[0].Line)
	assert.Equal(t, 4, cs[1].Line)
}

func TestParse_StringEscapes(t *testing.T) {
	prog := parse(t, "example.test.js", `f('it\'s', "a\tb", 'plain');`)

	cs := calls(prog)
	require.Len(t, cs, 1)
	assert.Equal(t, []Node{
		&StringLit{Value: "it's"},
		&StringLit{Value: "a\tb"},
		&StringLit{Value: "plain"},
	}, cs[0].Args)
}

func TestParse_EmptyString(t *testing.T) {
	prog := parse(t, "example.test.js", `page.fill('#username', '');`)

	cs := calls(prog)
	require.Len(t, cs, 1)
	assert.Equal(t, &StringLit{Value: ""}, cs[0].Args[1])
}

func TestParse_TemplateLiterals(t *testing.T) {
	prog := parse(t, "example.test.js", "f(`static`);\ng(`hello ${name}`);\n")

	cs := calls(prog)
	require.Len(t, cs, 2)
	assert.Equal(t, &StringLit{Value: "static"}, cs[0].Args[0])

	other, ok := cs[1].Args[0].(*Other)
	require.True(t, ok)
	assert.Equal(t, "template_string", other.Kind)
}

func TestParse_MultiCharEscapes(t *testing.T) {
	prog := parse(t, "example.test.js", "f(`caf\\u00e9`, `tab\\x41`, 'smile\\u{1F600}', \"caf\\u00e9 ok\");\n")

	cs := calls(prog)
	require.Len(t, cs, 1)
	assert.Equal(t, []Node{
		&StringLit{Value: "café"},
		&StringLit{Value: "tabA"},
		&StringLit{Value: "smile\U0001F600"},
		&StringLit{Value: "café ok"},
	}, cs[0].Args)
}

func TestParse_TemplateEscapesKeepSurroundingText(t *testing.T) {
	prog := parse(t, "example.test.js", "f(`it\\'s a \\`tick\\``);\n")

	cs := calls(prog)
	require.Len(t, cs, 1)
	assert.Equal(t, &StringLit{Value: "it's a `tick`"}, cs[0].Args[0])
}

func TestParse_Regex(t *testing.T) {
	prog := parse(t, "example.test.js", `f(/dash\/board/i);`)

	cs := calls(prog)
	require.Len(t, cs, 1)
	assert.Equal(t, &RegexLit{Pattern: `dash\/board`, Flags: "i"}, cs[0].Args[0])
}

func TestParse_ObjectArgument(t *testing.T) {
	prog := parse(t, "example.test.js", `test('n', { tag: '@manual', 'retries': 2, page }, () => {});`)

	cs := calls(prog)
	require.Len(t, cs, 1)
	obj, ok := cs[0].Args[1].(*ObjectLit)
	require.True(t, ok)

	tag, ok := obj.Prop("tag")
	require.True(t, ok)
	assert.Equal(t, &StringLit{Value: "@manual"}, tag)

	_, ok = obj.Prop("retries")
	assert.True(t, ok)

	page, ok := obj.Prop("page")
	require.True(t, ok)
	assert.Equal(t, &Ident{Name: "page"}, page)

	_, ok = obj.Prop("missing")
	assert.False(t, ok)
}

func TestParse_ArrayArgument(t *testing.T) {
	prog := parse(t, "example.test.js", `f(['@manual', '@slow']);`)

	cs := calls(prog)
	require.Len(t, cs, 1)
	assert.Equal(t, &ArrayLit{Elems: []Node{
		&StringLit{Value: "@manual"},
		&StringLit{Value: "@slow"},
	}}, cs[0].Args[0])
}

func TestParse_AwaitAndParens(t *testing.T) {
	prog := parse(t, "example.test.js", `async function run() { await (page.click('#a')); }`)

	var parents []Node
	Walk(prog, func(ev Event, p *Path) {
		if ev == EnterCall {
			parents = append(parents, p.Parent().Node())
		}
	})
	require.Len(t, parents, 1)
	_, ok := parents[0].(*AwaitExpr)
	assert.True(t, ok)
}

func TestParse_CommentsDropped(t *testing.T) {
	prog := parse(t, "example.test.js", "/* a */\n// b\npage.click('#a');\n")

	require.Len(t, prog.Body, 1)
	stmt, ok := prog.Body[0].(*Other)
	require.True(t, ok)
	assert.Equal(t, "expression_statement", stmt.Kind)
}

func TestParse_ChainedAssertionShape(t *testing.T) {
	prog := parse(t, "example.test.js", `expect(page.getByText('Error')).toBeVisible();`)

	cs := calls(prog)
	require.Len(t, cs, 3)

	outer, ok := cs[0].Callee.(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "toBeVisible", outer.Property)

	assert.Equal(t, &Ident{Name: "expect"}, cs[1].Callee)

	inner, ok := cs[2].Callee.(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "getByText", inner.Property)
}

func TestParse_TypeScript(t *testing.T) {
	src := `import { test, expect } from '@playwright/test';

test('typed', async ({ page }) => {
  const user: string = 'alice';
  await page!.fill('#username', user as string);
});
`
	prog := parse(t, "login.spec.ts", src)

	var fill *CallExpr
	for _, c := range calls(prog) {
		if m, ok := c.Callee.(*MemberExpr); ok && m.Property == "fill" {
			fill = c
		}
	}
	require.NotNil(t, fill)
	m := fill.Callee.(*MemberExpr)
	assert.Equal(t, &Ident{Name: "page"}, m.Object)
	assert.Equal(t, &StringLit{Value: "#username"}, fill.Args[0])
	_, isOther := fill.Args[1].(*Other)
	assert.True(t, isOther)
	assert.Equal(t, 5, fill.Line)
}

func TestParse_TSX(t *testing.T) {
	prog := parse(t, "widget.spec.tsx", `test('renders', async ({ mount }) => { await mount(<Widget />); });`)

	assert.NotEmpty(t, calls(prog))
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), "broken.test.js", []byte("test('x', () => {\n  page.click('#a'\n"))
	require.Error(t, err)

	var syn *SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Equal(t, "broken.test.js", syn.File)
	assert.GreaterOrEqual(t, syn.Line, 1)
	assert.Contains(t, err.Error(), "broken.test.js:")
}

func TestParse_Empty(t *testing.T) {
	prog := parse(t, "empty.test.js", "")
	assert.Empty(t, prog.Body)
}
