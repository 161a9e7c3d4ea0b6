package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"robin/internal/domain"
)

// ListState is one paginated, selectable list
type ListState struct {
	Title   string
	Count   int
	HasNext bool
	HasPrev bool
	Focused bool
	Loading bool
	Cursor  int
	Rows    []Row
}

// Row is one rendered list item
type Row struct {
	Text    string
	Checked bool
	Label   string // trailing button text, empty for none
}

// FormState is the query form
type FormState struct {
	Open       bool
	Submitting bool
	Category   string
	StatsType  domain.StatsType
	Begin      string // rendered text input
	End        string
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width        int
	Height       int
	Repositories ListState
	Teams        ListState
	Pending      []*domain.PendingPatch
	PendingShown bool
	PendingCount int
	Form         FormState
	HasResult    bool
	Result       string // rendered result viewport
	ResultCount  int
	Notification *domain.Notification
	Help         string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles returns the renderer styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Render produces the complete view
func (r *Renderer) Render(s ViewState) string {
	b := &strings.Builder{}
	b.WriteString(r.styles.Title.Render("robin"))
	b.WriteString("\n")

	if s.HasResult {
		b.WriteString(r.styles.SectionActive.Render(fmt.Sprintf("Closed patches (%d)", s.ResultCount)))
		b.WriteString("\n")
		b.WriteString(s.Result)
	} else {
		listWidth := (s.Width - 6) / 2
		if listWidth < 20 {
			listWidth = 20
		}
		lists := lipgloss.JoinHorizontal(lipgloss.Top,
			r.renderList(s.Repositories, listWidth),
			"  ",
			r.renderList(s.Teams, listWidth),
		)
		b.WriteString(lists)

		if s.PendingShown {
			b.WriteString("\n")
			b.WriteString(r.renderPending(s.Pending, s.PendingCount))
		}
	}

	if s.Form.Open {
		b.WriteString("\n")
		b.WriteString(r.renderForm(s.Form))
	}

	if s.Notification != nil {
		b.WriteString("\n")
		b.WriteString(r.renderNotification(*s.Notification))
	}

	if s.Help != "" {
		b.WriteString("\n\n")
		b.WriteString(r.styles.Help.Render(s.Help))
	}

	return r.styles.Main.Render(b.String())
}

func (r *Renderer) renderList(l ListState, width int) string {
	b := &strings.Builder{}

	title := r.styles.Section
	if l.Focused {
		title = r.styles.SectionActive
	}
	header := fmt.Sprintf("%s (%d)", l.Title, l.Count)
	if l.Loading {
		header += r.styles.Loading.Render(" loading…")
	}
	b.WriteString(title.Render(header))
	b.WriteString("\n")

	if len(l.Rows) == 0 {
		b.WriteString(r.styles.Dim.Render("  nothing here"))
		b.WriteString("\n")
	}

	for i, row := range l.Rows {
		box := "[ ]"
		if row.Checked {
			box = r.styles.Checked.Render("[x]")
		}
		text := Truncate(row.Text, width-12)
		line := fmt.Sprintf("%s %s", box, text)
		if row.Label != "" {
			line += " " + r.styles.Label.Render("["+row.Label+"]")
		}
		if l.Focused && i == l.Cursor {
			line = r.styles.Cursor.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	nav := []string{}
	if l.HasPrev {
		nav = append(nav, "‹ prev")
	}
	if l.HasNext {
		nav = append(nav, "next ›")
	}
	if len(nav) > 0 {
		b.WriteString(r.styles.Dim.Render(strings.Join(nav, "  ")))
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (r *Renderer) renderPending(patches []*domain.PendingPatch, count int) string {
	title := r.styles.SectionActive.Render(fmt.Sprintf("Pending patches (%d)", count))
	if len(patches) == 0 {
		return r.styles.Panel.Render(title + "\n" + r.styles.Dim.Render("no pending patches"))
	}
	return r.styles.Panel.Render(title + "\n" + r.styles.PendingTable(patches))
}

func (r *Renderer) renderForm(f FormState) string {
	b := &strings.Builder{}
	b.WriteString(r.styles.ModalTitle.Render("Query: " + f.Category))
	b.WriteString("\n\n")
	fmt.Fprintf(b, "Start  %s\n", f.Begin)
	fmt.Fprintf(b, "End    %s\n", f.End)
	fmt.Fprintf(b, "Type   %s\n", f.StatsType)
	if f.Submitting {
		b.WriteString("\n")
		b.WriteString(r.styles.Loading.Render("submitting…"))
	}
	return r.styles.Modal.Render(b.String())
}

func (r *Renderer) renderNotification(n domain.Notification) string {
	if n.Kind == domain.NotifyDanger {
		return r.styles.Danger.Render("✗ " + n.Message)
	}
	return r.styles.Success.Render("✓ " + n.Message)
}
