package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/pwflow/internal/parser"
)

func classifyAll(t *testing.T, src string) []Action {
	t.Helper()
	return classifyWith(t, DefaultRules(), src)
}

func classifyWith(t *testing.T, rules Rules, src string) []Action {
	t.Helper()
	prog, err := parser.Parse(context.Background(), "example.test.js", []byte(src))
	require.NoError(t, err)

	c := NewClassifier(rules)
	var out []Action
	parser.Walk(prog, func(ev parser.Event, p *parser.Path) {
		if ev != parser.EnterCall {
			return
		}
		if a, ok := c.Classify(p); ok {
			out = append(out, a)
		}
	})
	return out
}

func TestClassify_TestStart(t *testing.T) {
	got := classifyAll(t, `test('should login successfully', async ({ page }) => {});`)

	require.Len(t, got, 1)
	assert.Equal(t, TestStart, got[0].Kind)
	assert.Equal(t, "should login successfully", got[0].Target)
	assert.False(t, got[0].Manual)
	assert.Equal(t, 1, got[0].Line)
}

func TestClassify_TestStartManualTag(t *testing.T) {
	got := classifyAll(t, `test('empty username', { tag: '@manual' }, async ({ page }) => {});`)

	require.Len(t, got, 1)
	assert.Equal(t, TestStart, got[0].Kind)
	assert.True(t, got[0].Manual)
}

func TestClassify_TestStartManualTagArray(t *testing.T) {
	got := classifyAll(t, `test('empty username', { tag: ['@slow', '@manual-only'] }, async () => {});`)

	require.Len(t, got, 1)
	assert.True(t, got[0].Manual)
}

func TestClassify_TestStartOtherTag(t *testing.T) {
	got := classifyAll(t, `test('smoke', { tag: '@smoke' }, async () => {});`)

	require.Len(t, got, 1)
	assert.False(t, got[0].Manual)
}

func TestClassify_TestStartNonLiteralName(t *testing.T) {
	got := classifyAll(t, `test(title, async () => {});`)

	assert.Empty(t, got)
}

func TestClassify_Navigate(t *testing.T) {
	got := classifyAll(t, `page.goto('https://mywebsite.com/login');`)

	require.Len(t, got, 1)
	assert.Equal(t, Action{Kind: Navigate, Target: "mywebsite.com/login", HasTarget: true, Line: 1}, got[0])
}

func TestClassify_NavigateHTTP(t *testing.T) {
	got := classifyAll(t, `page.goto('http://localhost:3000');`)

	require.Len(t, got, 1)
	assert.Equal(t, "localhost:3000", got[0].Target)
}

func TestClassify_NavigateDynamic(t *testing.T) {
	got := classifyAll(t, `page.goto(baseURL + '/login');`)

	require.Len(t, got, 1)
	assert.Equal(t, Navigate, got[0].Kind)
	assert.False(t, got[0].HasTarget)
	_, ok := got[0].Key()
	assert.False(t, ok)
}

func TestClassify_Click(t *testing.T) {
	got := classifyAll(t, `page.click('#login');`)

	require.Len(t, got, 1)
	assert.Equal(t, Action{Kind: Click, Target: "#login", HasTarget: true, Line: 1}, got[0])
}

func TestClassify_ClickLocator(t *testing.T) {
	got := classifyAll(t, `page.getByRole('button').click();`)

	require.Len(t, got, 1)
	assert.Equal(t, Click, got[0].Kind)
	assert.Equal(t, "getByRole('button')", got[0].Target)
	assert.True(t, got[0].HasTarget)
}

func TestClassify_ClickLocatorWithOptions(t *testing.T) {
	got := classifyAll(t, `page.getByRole('button').click({ force: true });`)

	require.Len(t, got, 1)
	assert.Equal(t, "getByRole('button')", got[0].Target)
	assert.True(t, got[0].HasTarget)

	plain := classifyAll(t, `page.getByRole('button').click();`)
	k1, ok := got[0].Key()
	require.True(t, ok)
	k2, _ := plain[0].Key()
	assert.Equal(t, k2, k1)
}

func TestClassify_ClickSelectorWithOptions(t *testing.T) {
	got := classifyAll(t, `page.click('#login', { force: true });`)

	require.Len(t, got, 1)
	assert.Equal(t, "#login", got[0].Target)
}

func TestClassify_ClickDynamicSelector(t *testing.T) {
	got := classifyAll(t, `page.click(selector);`)

	require.Len(t, got, 1)
	assert.False(t, got[0].HasTarget)
}

func TestClassify_Fill(t *testing.T) {
	got := classifyAll(t, `page.fill('#username', 'valid-username');`)

	require.Len(t, got, 1)
	assert.Equal(t, Action{
		Kind: Fill, Target: "#username", Value: "valid-username",
		HasTarget: true, HasValue: true, Line: 1,
	}, got[0])
}

func TestClassify_FillSingleSpace(t *testing.T) {
	got := classifyAll(t, `page.fill('#username', ' ');`)

	require.Len(t, got, 1)
	assert.Equal(t, " ", got[0].Value)
	assert.True(t, got[0].HasValue)
}

func TestClassify_FillLocator(t *testing.T) {
	got := classifyAll(t, `page.getByLabel('Password').fill('secret');`)

	require.Len(t, got, 1)
	assert.Equal(t, "getByLabel('Password')", got[0].Target)
	assert.Equal(t, "secret", got[0].Value)
}

func TestClassify_FillLocatorWithOptions(t *testing.T) {
	got := classifyAll(t, `page.getByLabel('User').fill('bob', { timeout: 5000 });`)

	require.Len(t, got, 1)
	assert.Equal(t, Action{
		Kind: Fill, Target: "getByLabel('User')", Value: "bob",
		HasTarget: true, HasValue: true, Line: 1,
	}, got[0])
	_, ok := got[0].Key()
	assert.True(t, ok)
}

func TestClassify_FillSelectorWithOptions(t *testing.T) {
	got := classifyAll(t, `page.fill('#username', 'bob', { timeout: 5000 });`)

	require.Len(t, got, 1)
	assert.Equal(t, "#username", got[0].Target)
	assert.Equal(t, "bob", got[0].Value)
}

func TestClassify_FillDynamicValue(t *testing.T) {
	got := classifyAll(t, `page.fill('#username', user.name);`)

	require.Len(t, got, 1)
	assert.True(t, got[0].HasTarget)
	assert.False(t, got[0].HasValue)
	_, ok := got[0].Key()
	assert.False(t, ok)
}

func TestClassify_UnknownMethodIgnored(t *testing.T) {
	got := classifyAll(t, `page.hover('#menu'); page.waitForTimeout(100); console.log('x');`)

	assert.Empty(t, got)
}

func TestClassify_AssertURL(t *testing.T) {
	got := classifyAll(t, `expect(page).toHaveURL('https://mywebsite.com/lobby');`)

	require.Len(t, got, 1)
	assert.Equal(t, Assert, got[0].Kind)
	assert.Equal(t, "mywebsite.com/lobby", got[0].Target)
	assert.Equal(t, "toHaveURL", got[0].Value)
}

func TestClassify_AssertTextLocator(t *testing.T) {
	got := classifyAll(t, `expect(page.getByText('Error message - invalid credentials')).toBeVisible();`)

	require.Len(t, got, 1)
	assert.Equal(t, "'Error message - invalid credentials'", got[0].Target)
	assert.Equal(t, "toBeVisible", got[0].Value)
}

func TestClassify_AssertRegex(t *testing.T) {
	got := classifyAll(t, `expect(page).toHaveURL(/dashboard/i);`)

	require.Len(t, got, 1)
	assert.Equal(t, "/dashboard/i", got[0].Target)
}

func TestClassify_AssertSubject(t *testing.T) {
	got := classifyAll(t, `expect(page.title).toBeTruthy();`)

	require.Len(t, got, 1)
	assert.Equal(t, "subject", got[0].Target)
	assert.Equal(t, "toBeTruthy", got[0].Value)
}

func TestClassify_AssertPredicateDetailOverrides(t *testing.T) {
	got := classifyAll(t, `expect(page.locator('#title')).toHaveText('Welcome');`)

	require.Len(t, got, 1)
	assert.Equal(t, "Welcome", got[0].Target)
	assert.Equal(t, "toHaveText", got[0].Value)
}

func TestClassify_AssertNegated(t *testing.T) {
	got := classifyAll(t, `expect(page.getByText('Error')).not.toBeVisible();`)

	require.Len(t, got, 1)
	assert.Equal(t, "'Error'", got[0].Target)
	assert.Equal(t, "not toBeVisible", got[0].Value)
}

func TestClassify_AssertSoft(t *testing.T) {
	got := classifyAll(t, `expect.soft(page).toHaveTitle('Lobby');`)

	require.Len(t, got, 1)
	assert.Equal(t, Assert, got[0].Kind)
	assert.Equal(t, "Lobby", got[0].Target)
	assert.Equal(t, "toHaveTitle", got[0].Value)
}

func TestClassify_AssertAwaited(t *testing.T) {
	got := classifyAll(t, `async function f() { await expect(page).toHaveURL(/lobby/); }`)

	require.Len(t, got, 1)
	assert.Equal(t, "/lobby/", got[0].Target)
}

func TestClassify_AssertWithoutPredicateDropped(t *testing.T) {
	got := classifyAll(t, `const e = expect(page);`)

	assert.Empty(t, got)
}

func TestClassify_AssertAsArgumentDropped(t *testing.T) {
	got := classifyAll(t, `helper.check(expect(page));`)

	assert.Empty(t, got)
}

func TestClassify_AssertNoDetail(t *testing.T) {
	got := classifyAll(t, `expect(count).toBeGreaterThan(2);`)

	require.Len(t, got, 1)
	assert.False(t, got[0].HasTarget)
	assert.Equal(t, "toBeGreaterThan", got[0].Value)
}

func TestClassify_CustomRules(t *testing.T) {
	rules := Rules{
		TestFunction:      "it",
		AssertionFunction: "verify",
		ManualMarker:      "#manual",
		SchemePrefixes:    []string{"https://"},
	}
	got := classifyWith(t, rules, `it('custom', { tag: '#manual' }, async () => {
  verify(page).toHaveURL('https://x.com');
});
test('ignored', async () => {});
`)

	require.Len(t, got, 2)
	assert.Equal(t, TestStart, got[0].Kind)
	assert.True(t, got[0].Manual)
	assert.Equal(t, Assert, got[1].Kind)
	assert.Equal(t, "x.com", got[1].Target)
}

func TestClassify_EmptyManualMarker(t *testing.T) {
	rules := DefaultRules()
	rules.ManualMarker = ""
	got := classifyWith(t, rules, `test('t', { tag: '@manual' }, async () => {});`)

	require.Len(t, got, 1)
	assert.False(t, got[0].Manual)
}

func TestKey_Identity(t *testing.T) {
	a := Action{Kind: Fill, Target: "#u", Value: "x", HasTarget: true, HasValue: true, Line: 3}
	b := Action{Kind: Fill, Target: "#u", Value: "x", HasTarget: true, HasValue: true, Line: 9}

	ka, ok := a.Key()
	require.True(t, ok)
	kb, ok := b.Key()
	require.True(t, ok)
	assert.Equal(t, ka, kb)

	b.Value = "y"
	kb, _ = b.Key()
	assert.NotEqual(t, ka, kb)
}

func TestKey_AssertHasNoIdentity(t *testing.T) {
	_, ok := Action{Kind: Assert, Target: "'x'", Value: "toBeVisible", HasTarget: true, HasValue: true}.Key()
	assert.False(t, ok)
}
