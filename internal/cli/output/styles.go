package output

import "github.com/charmbracelet/lipgloss"

// Palette used for styled terminal output.
var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")
)

// Styles holds the lipgloss styles bound to one renderer.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  r.NewStyle().Foreground(colorHeader).Bold(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(colorDim),
		Success: r.NewStyle().Foreground(colorGreen),
		Warning: r.NewStyle().Foreground(colorYellow),
		Error:   r.NewStyle().Foreground(colorRed),
		Info:    r.NewStyle().Foreground(colorBlue),
	}
}

// Swatch renders a colored block for a hex color, followed by label.
func (s *Styles) Swatch(r *lipgloss.Renderer, hex, label string) string {
	block := r.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
	return block + " " + label
}
