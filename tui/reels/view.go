package reels

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/rentreels/domain"
	"github.com/CrestNiraj12/rentreels/tui/common"
)

// View renders the reels view.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	var body string
	switch {
	case m.comments.open:
		body = m.renderComments()
	case m.showUploader:
		body = m.renderUploader()
	case m.loading:
		body = fmt.Sprintf("%s Loading %s reels…", m.spinner.View(), m.category)
	case m.err != nil:
		body = common.ErrorStyle.Render("Couldn't load reels: "+m.err.Error()) +
			"\n" + common.HintStyle.Render("Press R to retry.")
	case len(m.entries) == 0:
		body = "No reels here yet.\n" + common.HintStyle.Render("Try another feed with tab, or search with /.")
	default:
		body = m.renderViewport()
	}
	b.WriteString(fitLines(body, m.cardHeight()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) innerWidth() int {
	if m.width <= 0 {
		return 76
	}
	return max(20, m.width-4)
}

func (m Model) renderHeader() string {
	tabs := make([]string, 0, len(Categories))
	for _, c := range Categories {
		if m.source == sourceCategory && c == m.category {
			tabs = append(tabs, common.TabActiveStyle.Render(c))
		} else {
			tabs = append(tabs, common.TabInactiveStyle.Render(c))
		}
	}
	line := common.AppTitleStyle.Render("RentReels") + strings.Join(tabs, "")
	if m.source == sourceSearch {
		line += common.TabActiveStyle.Render("search: " + m.searchLabel)
	}

	info := ""
	if n := len(m.entries); n > 0 {
		info = fmt.Sprintf("%d/%d", m.cursor+1, n)
		if m.playback.Muted() {
			info += " · muted"
		}
	}
	return ansi.Truncate(line, max(20, m.width), "…") + "\n" + common.HintStyle.Render(info)
}

func (m Model) renderFooter() string {
	status := ""
	if m.status != "" {
		if m.statusErr {
			status = common.ErrorStyle.Render(m.status)
		} else {
			status = common.SuccessStyle.Render(m.status)
		}
	}
	return status + "\n" + common.HintStyle.Render(common.Truncate(m.hints(), max(20, m.width)))
}

func (m Model) hints() string {
	k := m.keys
	switch {
	case m.comments.open && m.inputFocused:
		return m.keyHelp(k.Submit, k.Cancel)
	case m.comments.open:
		return m.keyHelp(k.Down, k.Up, k.Expand, k.Reply, k.Write, k.Editor, k.Cancel)
	case m.showUploader:
		return m.keyHelp(k.Cancel)
	case m.showHints:
		return m.keyHelp(k.Down, k.Up, k.First, k.Last, k.Pause, k.Mute, k.Like, k.Comments,
			k.Share, k.Property, k.Uploader, k.Search, k.NextFeed, k.Refresh, k.Quit)
	default:
		return m.keyHelp(k.Down, k.Up, k.Pause, k.Like, k.Comments, k.Search, k.ToggleHints)
	}
}

// renderViewport draws the cards overlapping [offset, offset+cardHeight).
func (m Model) renderViewport() string {
	h := m.cardHeight()
	first := m.offset / h
	last := min(len(m.entries)-1, (m.offset+h-1)/h)

	var lines []string
	for i := first; i <= last; i++ {
		lines = append(lines, strings.Split(m.renderCard(i, h), "\n")...)
	}
	skip := m.offset - first*h
	if skip >= len(lines) {
		return ""
	}
	lines = lines[skip:]
	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

// renderCard returns exactly h lines for entry i.
func (m Model) renderCard(i, h int) string {
	e := m.entries[i]
	w := m.innerWidth()
	st := m.playback.State(e.ID)

	state := common.HintStyle.Render("○ idle")
	switch {
	case st.Active && st.Paused:
		state = common.RentStyle.Render("❚❚ paused")
	case st.Active:
		state = common.SuccessStyle.Render("▶ playing")
	}
	if st.Active && st.Muted {
		state += common.HintStyle.Render(" · muted")
	}
	if !e.HasVideo() {
		state += common.HintStyle.Render(" · no video")
	}
	if e.IsBoosted {
		state += " " + common.BoostedStyle.Render("✦ Boosted")
	}

	title := common.ContentStyle.Bold(true).Render(e.Title())
	if e.Rent != "" {
		title += "  " + common.RentStyle.Render(e.Rent)
	}

	meta := common.AuthorStyle.Render("@" + e.Uploader)
	if e.City != "" {
		meta += common.TimestampStyle.Render(" · " + e.City)
	}
	if !e.CreatedAt.IsZero() {
		meta += common.TimestampStyle.Render(" · " + timeAgo(e.CreatedAt, time.Now()))
	}

	heart := "♡"
	if e.Liked {
		heart = common.LikedStyle.Render("♥")
	}
	counters := fmt.Sprintf("%s %s   💬 %s   👁 %s",
		heart, common.FormatCount(e.LikeCount), common.FormatCount(e.CommentCount), common.FormatCount(e.ViewCount))

	lines := []string{state, title, meta}
	if art := m.posters[e.PosterURL]; st.Active && art != "" && h-2-len(lines)-3 >= posterRows {
		lines = append(lines, strings.Split(art, "\n")...)
	}
	bodyRows := max(0, h-2-len(lines)-3)
	if e.Caption != "" && bodyRows > 0 {
		caption := strings.Split(ansi.Wordwrap(e.Caption, w, " "), "\n")
		if len(caption) > bodyRows {
			caption = append(caption[:bodyRows-1], "…")
		}
		for _, c := range caption {
			lines = append(lines, common.ContentStyle.Render(c))
		}
	}
	if len(e.Tags) > 0 {
		lines = append(lines, common.TagStyle.Render("#"+strings.Join(e.Tags, " #")))
	}
	lines = append(lines, counters)
	if src := firstNonEmpty(e.VideoURL, e.PosterURL); src != "" {
		lines = append(lines, common.HintStyle.Render(src))
	}

	style := common.CardStyle
	if st.Active {
		style = common.ActiveCardStyle
	}
	return style.Width(w + 2).Render(fitLines(truncateLines(lines, w), h-2))
}

func (m Model) renderComments() string {
	h := m.cardHeight()
	w := m.innerWidth()
	e, _ := m.entryByID(m.comments.entryID)

	header := common.AuthorStyle.Render("Comments") +
		common.TimestampStyle.Render(fmt.Sprintf(" · %s · %s", e.Title(), common.FormatCount(e.CommentCount)))
	lines := []string{header}

	footer := []string{}
	if t := m.comments.target; t != nil {
		footer = append(footer, common.TagStyle.Render("Replying to @"+t.Author)+common.HintStyle.Render(" (esc to cancel)"))
	}
	footer = append(footer, m.input.View())

	room := max(1, h-2-len(lines)-len(footer))
	switch m.comments.phase {
	case PanelLoading:
		lines = append(lines, m.spinner.View()+" Loading comments…")
	case PanelFailed:
		lines = append(lines, common.ErrorStyle.Render("Couldn't load comments."), common.HintStyle.Render("Press R to retry."))
	default:
		rows := m.comments.rows()
		if len(rows) == 0 {
			lines = append(lines, common.HintStyle.Render("No comments yet. Be the first!"))
		}
		start := 0
		if m.comments.selected >= room {
			start = m.comments.selected - room + 1
		}
		for i := start; i < len(rows) && i < start+room; i++ {
			lines = append(lines, m.renderCommentRow(rows[i], i == m.comments.selected))
		}
	}
	for len(lines) < h-2-len(footer) {
		lines = append(lines, "")
	}
	lines = append(lines, footer...)
	return common.PanelStyle.Width(w + 2).Render(fitLines(truncateLines(lines, w), h-2))
}

func (m Model) renderCommentRow(r commentRow, selected bool) string {
	marker := "  "
	if selected {
		marker = common.SelectedStyle.Render("› ")
	}
	indent := ""
	if r.reply {
		indent = "   ↳ "
	}
	if r.status != "" {
		return marker + indent + common.HintStyle.Render(r.status)
	}
	c := r.comment
	text := common.FirstLine(c.Text)
	if strings.Contains(strings.TrimSpace(c.Text), "\n") {
		text += " …"
	}
	line := common.AuthorStyle.Render(c.Author) + " " + common.ContentStyle.Render(text)
	if c.Pending {
		line = common.PendingStyle.Render(c.Author + " " + text + " (sending…)")
	}
	if !r.reply && c.ReplyCount > 0 {
		th, ok := m.comments.threads[c.ID]
		verb := "view"
		if ok && th.expanded {
			verb = "hide"
		}
		line += common.HintStyle.Render(fmt.Sprintf("  [%s %d replies]", verb, c.ReplyCount))
	}
	return marker + indent + line
}

func (m Model) renderUploader() string {
	e, _ := m.currentEntry()
	w := m.innerWidth()
	count := 0
	cities := map[string]struct{}{}
	for _, other := range m.entries {
		if other.Uploader != e.Uploader {
			continue
		}
		count++
		if other.City != "" {
			cities[other.City] = struct{}{}
		}
	}
	places := make([]string, 0, len(cities))
	for c := range cities {
		places = append(places, c)
	}
	lines := []string{
		common.AuthorStyle.Render("@" + e.Uploader),
		fmt.Sprintf("%d reel(s) in this feed", count),
	}
	if len(places) > 0 {
		sort.Strings(places)
		lines = append(lines, "Listings in "+strings.Join(places, ", "))
	}
	if e.UploaderAvatar != "" {
		lines = append(lines, common.HintStyle.Render(e.UploaderAvatar))
	}
	return common.PanelStyle.Render(truncateLines(lines, w))
}

func (m Model) entryByID(id string) (domain.FeedEntry, bool) {
	if i := m.indexOf(id); i >= 0 {
		return m.entries[i], true
	}
	return domain.FeedEntry{}, false
}

// fitLines pads or cuts s to exactly n lines.
func fitLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func truncateLines(lines []string, w int) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = common.Truncate(l, w)
	}
	return strings.Join(out, "\n")
}

func timeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
