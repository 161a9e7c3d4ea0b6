package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Section       lipgloss.Style
	SectionActive lipgloss.Style
	Dim           lipgloss.Style
	Cursor        lipgloss.Style
	Checked       lipgloss.Style
	Label         lipgloss.Style
	Panel         lipgloss.Style
	Modal         lipgloss.Style
	ModalTitle    lipgloss.Style
	Danger        lipgloss.Style
	Success       lipgloss.Style
	Loading       lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	TableHeader   lipgloss.Style
	TableCell     lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Section:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("241")),
		SectionActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Cursor:        lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Checked:       lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		Label:         lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("241")),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Width(56).
			BorderForeground(lipgloss.Color("99")),
		ModalTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Danger:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true), // red
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),  // green
		Loading:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),            // yellow
		Help:        lipgloss.NewStyle().Faint(true),
		Main:        lipgloss.NewStyle().Padding(1, 2),
		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
		TableCell:   lipgloss.NewStyle().Padding(0, 1),
	}
}
