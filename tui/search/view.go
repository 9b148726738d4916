package search

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/rentreels/tui/common"
)

// View renders the overlay.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("RentReels") + "  Search\n\n")

	for i, in := range m.inputs {
		b.WriteString(m.fieldMarker(i) + in.View() + "\n")
	}
	toggle := "[ ]"
	if m.nearby {
		toggle = "[x]"
	}
	b.WriteString(m.fieldMarker(fieldNearby) + "Nearby  " + toggle + common.HintStyle.Render(" (space to toggle)") + "\n\n")

	b.WriteString(m.renderBody())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(common.ErrorStyle.Render(m.status) + "\n")
	}
	b.WriteString(common.HintStyle.Render(m.hints()))

	w := m.width - 4
	if w < 20 {
		w = 76
	}
	return common.PanelStyle.Width(w).Render(b.String())
}

func (m Model) fieldMarker(i int) string {
	if i == m.focus && (i == fieldNearby || m.inputFocused()) {
		return common.SelectedStyle.Render("› ")
	}
	return "  "
}

func (m Model) renderBody() string {
	switch m.state {
	case StateLocating:
		return m.spinner.View() + " Finding your location…"
	case StateSearching:
		return m.spinner.View() + " Searching…"
	case StateEmpty:
		return noResults("Nothing matched " + Label(m.query) + ".")
	case StateFailed:
		return noResults("Search failed: " + m.err.Error())
	case StateResults:
		return m.renderResults()
	}
	return common.HintStyle.Render("Press enter to search.")
}

func noResults(detail string) string {
	return common.AuthorStyle.Render("No results") + "\n" + common.HintStyle.Render(detail)
}

const titleCols = 32

func (m Model) renderResults() string {
	var b strings.Builder
	header := fmt.Sprintf("%d result(s) for %s", len(m.results), Label(m.query))
	if m.fallback {
		header += common.HintStyle.Render(" · using default location")
	}
	b.WriteString(common.SuccessStyle.Render(header) + "\n")

	room := 8
	if m.height > 0 {
		room = max(3, m.height-18)
	}
	start := 0
	if m.selected >= room {
		start = m.selected - room + 1
	}
	w := max(20, m.width-12)
	for i := start; i < len(m.results) && i < start+room; i++ {
		e := m.results[i]
		marker := "  "
		if i == m.selected {
			marker = common.SelectedStyle.Render("› ")
		}
		line := common.PadRight(common.Truncate(e.Title(), titleCols), titleCols)
		if e.City != "" {
			line += common.TimestampStyle.Render(" · " + e.City)
		}
		if e.Rent != "" {
			line += "  " + common.RentStyle.Render(e.Rent)
		}
		line += common.HintStyle.Render("  ♥ " + common.FormatCount(e.LikeCount))
		b.WriteString(marker + common.Truncate(line, w) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) hints() string {
	k := m.keys
	parts := []string{"enter search", "tab next field"}
	if m.state == StateResults {
		if m.inputFocused() {
			parts = append(parts, "ctrl+l load into feed")
		} else {
			parts = append(parts, k.LoadResults.Help().Key+" "+k.LoadResults.Help().Desc, "/ edit")
		}
	}
	parts = append(parts, "esc close")
	return strings.Join(parts, " · ")
}
