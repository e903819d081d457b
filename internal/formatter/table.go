package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/movieplex/internal/models"
)

var (
	accent    = lipgloss.Color("#7D56F4")
	muted     = lipgloss.Color("#626262")
	warnColor = lipgloss.Color("#FFA500")
	okColor   = lipgloss.Color("#04B575")

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	demoStyle    = lipgloss.NewStyle().Foreground(warnColor).Italic(true)
	okStyle      = lipgloss.NewStyle().Foreground(okColor).Bold(true)
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(12)
)

// DemoNotice is the passive indicator shown when results come from the offline catalog.
const DemoNotice = "demo mode: showing the offline catalog"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// PageTable renders p as a lipgloss table with a heading and pagination footer.
func PageTable(heading string, p models.Page) string {
	t := newTable("#", "Title", "Year", "Rating", "Genres")
	for i, m := range p.Results {
		t.Row(
			strconv.Itoa(i+1),
			truncate(m.Title, 40),
			m.DisplayYear(),
			fmt.Sprintf("★ %.1f", m.VoteAverage),
			truncate(strings.Join(m.Genres, ", "), 30),
		)
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render(heading))
	if p.Fallback() {
		b.WriteString("  " + demoStyle.Render(DemoNotice))
	}
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("page %d of %d · %d results", p.Page, p.TotalPages, p.TotalResults)))
	return b.String()
}

// EntriesTable renders saved list entries.
func EntriesTable(heading string, entries []models.ListEntry) string {
	if len(entries) == 0 {
		return headingStyle.Render(heading) + "\n" + mutedStyle.Render("no movies saved yet")
	}

	t := newTable("Movie ID", "Title", "Year", "Rating", "Added")
	for _, e := range entries {
		t.Row(e.MovieID, truncate(e.Title, 40), displayYear(e.Year), fmt.Sprintf("★ %.1f", e.Rating), e.AddedAt.Format("2006-01-02"))
	}
	return headingStyle.Render(heading) + "\n" + t.String()
}

// MovieCard renders a detail view for one movie.
func MovieCard(m models.Movie) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render(fmt.Sprintf("%s (%s)", m.Title, m.DisplayYear())))
	if m.Source == models.SourceFallback {
		b.WriteString("  " + demoStyle.Render(DemoNotice))
	}
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}
	field("Rating", fmt.Sprintf("★ %.1f (%d votes)", m.VoteAverage, m.VoteCount))
	field("Genres", strings.Join(m.Genres, ", "))
	field("Runtime", FormatRuntime(m.RuntimeMinutes))
	field("Director", m.Director)
	field("Writer", m.Writer)
	field("Composer", m.Composer)
	if len(m.Actors) > 0 {
		field("Starring", strings.Join(m.Actors, ", "))
	}

	b.WriteString("\n" + lipgloss.NewStyle().Width(80).Render(m.Overview) + "\n")

	if len(m.Cast) > 0 {
		t := newTable("Actor", "Character")
		for i, c := range m.Cast {
			if i == 8 {
				break
			}
			t.Row(c.Name, c.Character)
		}
		b.WriteString("\n" + t.String() + "\n")
	}
	if len(m.Videos) > 0 {
		b.WriteString("\n" + labelStyle.Render("Trailer") + m.Videos[0].YouTubeURL() + "\n")
	}
	if len(m.Similar) > 0 {
		names := make([]string, 0, len(m.Similar))
		for _, s := range m.Similar {
			names = append(names, s.Title)
		}
		b.WriteString(labelStyle.Render("Similar") + mutedStyle.Render(strings.Join(names, " · ")) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// StatusCard renders an API status report.
func StatusCard(st models.Status) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("TMDB status") + "\n\n")

	configured := demoStyle.Render("no API key or access token")
	if st.Configured {
		configured = okStyle.Render("yes")
	}
	reachable := mutedStyle.Render("not checked")
	if st.Available != nil {
		if *st.Available {
			reachable = okStyle.Render("reachable")
		} else {
			reachable = demoStyle.Render("unreachable")
		}
	}
	mode := okStyle.Render(string(st.Mode))
	if st.Demo() {
		mode = demoStyle.Render("demo")
	}

	b.WriteString(labelStyle.Render("Configured") + configured + "\n")
	b.WriteString(labelStyle.Render("API") + reachable + "\n")
	if !st.LastCheckedAt.IsZero() {
		b.WriteString(labelStyle.Render("Checked") + st.LastCheckedAt.Format("2006-01-02 15:04:05") + "\n")
	}
	if st.BaseURL != "" {
		b.WriteString(labelStyle.Render("Base URL") + st.BaseURL + "\n")
	}
	b.WriteString(labelStyle.Render("Mode") + mode + "\n")
	b.WriteString(labelStyle.Render("Cache") + fmt.Sprintf("%s, %d entries", st.CacheBackend, st.CacheEntries))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
