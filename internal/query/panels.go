package query

// Button labels for the pending panel toggle
const (
	LabelShow  = "Show"
	LabelClose = "Close"
)

// Panels tracks the pending-patches panel. Visibility is one flag shared by all
// repositories while each repository keeps its own label state, so toggling
// through different rows, or hiding via Hide, leaves labels out of step with
// what is on screen.
type Panels struct {
	visible bool
	open    map[int]bool
}

// NewPanels creates a hidden panel set
func NewPanels() *Panels {
	return &Panels{open: make(map[int]bool)}
}

// Toggle flips the shared visibility and the label for id
func (p *Panels) Toggle(id int) (visible bool, label string) {
	p.visible = !p.visible
	p.open[id] = !p.open[id]
	return p.visible, p.Label(id)
}

// Hide closes the panel without touching any label
func (p *Panels) Hide() { p.visible = false }

// Visible reports whether the panel is shown
func (p *Panels) Visible() bool { return p.visible }

// Label returns the button text for a repository row
func (p *Panels) Label(id int) string {
	if p.open[id] {
		return LabelClose
	}
	return LabelShow
}
