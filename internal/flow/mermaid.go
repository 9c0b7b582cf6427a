package flow

import (
	"fmt"
	"strings"
)

// Theme holds the Mermaid themeVariables written in the init directive.
type Theme struct {
	FontSize            string
	NodeBorder          string
	NodeTextColor       string
	EdgeColor           string
	NodeBackground      string
	EdgeLabelBackground string
}

func DefaultTheme() Theme {
	return Theme{
		FontSize:            "16px",
		NodeBorder:          "1px solid #333",
		NodeTextColor:       "#333",
		EdgeColor:           "#333",
		NodeBackground:      "#fff",
		EdgeLabelBackground: "#ffffff",
	}
}

// RenderMermaid renders a Diagram as a Mermaid flowchart.
func RenderMermaid(d *Diagram, theme Theme) string {
	var b strings.Builder

	b.WriteString(initDirective(theme))
	b.WriteString("flowchart TD\n")

	for _, s := range d.Sections {
		indent := "    "
		if s.Test {
			fmt.Fprintf(&b, "    subgraph \"%s\"\n", mermaidEscapeLabel(s.Label()))
			indent = "        "
		}
		for _, stmt := range s.Body {
			switch stmt.Kind {
			case DeclareNode:
				fmt.Fprintf(&b, "%s%s\n", indent, mermaidNodeDef(stmt.Node))
			case DeclareEdge:
				fmt.Fprintf(&b, "%s%s --> %s\n", indent, stmt.Edge.From, stmt.Edge.To)
			}
		}
		if s.Test {
			b.WriteString("    end\n")
		}
	}

	return b.String()
}

func initDirective(t Theme) string {
	vars := []struct{ key, val string }{
		{"fontSize", t.FontSize},
		{"nodeBorder", t.NodeBorder},
		{"nodeTextColor", t.NodeTextColor},
		{"edgeColor", t.EdgeColor},
		{"nodeBackground", t.NodeBackground},
		{"edgeLabelBackground", t.EdgeLabelBackground},
	}
	var pairs []string
	for _, v := range vars {
		if v.val == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%q: %q", v.key, v.val))
	}
	return fmt.Sprintf("%%%%{init: {\"themeVariables\": {%s} }}%%%%\n", strings.Join(pairs, ", "))
}

// mermaidNodeDef returns a rounded node definition: id("icon label").
func mermaidNodeDef(n *Node) string {
	text := n.Label
	if n.Icon != "" {
		text = n.Icon + " " + text
	}
	return fmt.Sprintf("%s(\"%s\")", n.ID, mermaidEscapeLabel(text))
}

// mermaidEscapeLabel makes s safe inside a double-quoted Mermaid label.
func mermaidEscapeLabel(s string) string {
	r := strings.NewReplacer(`"`, "#quot;", "\n", " ")
	return r.Replace(s)
}
