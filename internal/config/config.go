// Package config loads pwflow.hcl.
//
// Every attribute and block is optional. A missing file yields Default().
//
//	output      = "output.mermaid"
//	test_dir    = "tests"
//	diagram_dir = ".pwflow/diagrams"
//	patterns    = ["*.spec.js", "*.spec.ts"]
//	dedup_scope = "test"
//
//	recognizer {
//	  test_function      = "test"
//	  assertion_function = "expect"
//	  manual_marker      = "@manual"
//	  scheme_prefixes    = ["https://", "http://"]
//	}
//
//	theme {
//	  font_size = "14px"
//	}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/chriserin/pwflow/internal/action"
	"github.com/chriserin/pwflow/internal/flow"
)

const DefaultPath = "pwflow.hcl"

type Config struct {
	Output     string
	TestDir    string
	DiagramDir string
	Patterns   []string
	Scope      flow.Scope
	Rules      action.Rules
	Theme      flow.Theme
}

func Default() Config {
	return Config{
		Output:     "output.mermaid",
		TestDir:    "tests",
		DiagramDir: ".pwflow/diagrams",
		Patterns: []string{
			"*.spec.js", "*.test.js",
			"*.spec.ts", "*.test.ts",
			"*.spec.mjs", "*.test.mjs",
			"*.spec.tsx", "*.test.tsx",
		},
		Scope: flow.ScopeTest,
		Rules: action.DefaultRules(),
		Theme: flow.DefaultTheme(),
	}
}

// Options returns the generation options for one run.
func (c Config) Options() flow.Options {
	return flow.Options{Rules: c.Rules, Scope: c.Scope}
}

type hclFile struct {
	Output     string         `hcl:"output,optional"`
	TestDir    string         `hcl:"test_dir,optional"`
	DiagramDir string         `hcl:"diagram_dir,optional"`
	Patterns   []string       `hcl:"patterns,optional"`
	DedupScope string         `hcl:"dedup_scope,optional"`
	Recognizer *hclRecognizer `hcl:"recognizer,block"`
	Theme      *hclTheme      `hcl:"theme,block"`
}

type hclRecognizer struct {
	TestFunction      string   `hcl:"test_function,optional"`
	AssertionFunction string   `hcl:"assertion_function,optional"`
	ManualMarker      *string  `hcl:"manual_marker,optional"`
	SchemePrefixes    []string `hcl:"scheme_prefixes,optional"`
}

type hclTheme struct {
	FontSize            string `hcl:"font_size,optional"`
	NodeBorder          string `hcl:"node_border,optional"`
	NodeTextColor       string `hcl:"node_text_color,optional"`
	EdgeColor           string `hcl:"edge_color,optional"`
	NodeBackground      string `hcl:"node_background,optional"`
	EdgeLabelBackground string `hcl:"edge_label_background,optional"`
}

// Load reads the config file at path. A missing file is not an error.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, content)
}

// Parse decodes HCL config content over the defaults.
func Parse(filename string, content []byte) (Config, error) {
	file, diags := hclparse.NewParser().ParseHCL(content, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", filename, diags)
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode config file %s: %w", filename, diags)
	}

	cfg := Default()
	setString(&cfg.Output, raw.Output)
	setString(&cfg.TestDir, raw.TestDir)
	setString(&cfg.DiagramDir, raw.DiagramDir)
	if raw.Patterns != nil {
		cfg.Patterns = raw.Patterns
	}

	scope, err := flow.ParseScope(raw.DedupScope)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	cfg.Scope = scope

	if r := raw.Recognizer; r != nil {
		setString(&cfg.Rules.TestFunction, r.TestFunction)
		setString(&cfg.Rules.AssertionFunction, r.AssertionFunction)
		if r.ManualMarker != nil {
			cfg.Rules.ManualMarker = *r.ManualMarker
		}
		if r.SchemePrefixes != nil {
			cfg.Rules.SchemePrefixes = r.SchemePrefixes
		}
	}

	if th := raw.Theme; th != nil {
		setString(&cfg.Theme.FontSize, th.FontSize)
		setString(&cfg.Theme.NodeBorder, th.NodeBorder)
		setString(&cfg.Theme.NodeTextColor, th.NodeTextColor)
		setString(&cfg.Theme.EdgeColor, th.EdgeColor)
		setString(&cfg.Theme.NodeBackground, th.NodeBackground)
		setString(&cfg.Theme.EdgeLabelBackground, th.EdgeLabelBackground)
	}

	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Template is the config file written by `pwflow init`.
const Template = `# pwflow configuration. Every setting is optional.

output      = "output.mermaid"
test_dir    = "tests"
diagram_dir = ".pwflow/diagrams"

# "test" reuses a repeated step only inside one test case.
# "run" reuses it across every test case of a file.
dedup_scope = "test"

recognizer {
  test_function      = "test"
  assertion_function = "expect"
  manual_marker      = "@manual"
  scheme_prefixes    = ["https://", "http://"]
}
`
