package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	updStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trkStyle    = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
	manualStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	autoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func UpdLine(w io.Writer, path string) {
	fmt.Fprintln(w, updStyle.Render("upd")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

func SummaryLine(w io.Writer, count int) {
	fmt.Fprintf(w, "synced %d files\n", count)
}

// ShowHeader prints the heading of `pwflow show`.
func ShowHeader(w io.Writer, id int64, path string, tests, nodes int) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("#%d %s", id, path)))
	fmt.Fprintf(w, "%d tests, %d nodes\n", tests, nodes)
}

// Kind renders the automated/manual marker of a test case.
func Kind(manual bool) string {
	if manual {
		return manualStyle.Render("manual")
	}
	return autoStyle.Render("auto")
}

// ListRow prints one padded row of `pwflow list`. Widths are measured on
// unstyled text.
func ListRow(w io.Writer, id int64, location, name string, manual bool, idWidth, locWidth int) {
	tag := fmt.Sprintf("#%d", id)
	kind := "auto"
	if manual {
		kind = "manual"
	}
	fmt.Fprintf(w, "%s%s  %s%s  %s%s  %s\n",
		tag, pad(tag, idWidth),
		location, pad(location, locWidth),
		Kind(manual), pad(kind, len("manual")),
		name)
}

func pad(s string, width int) string {
	if n := width - len(s); n > 0 {
		return strings.Repeat(" ", n)
	}
	return ""
}
