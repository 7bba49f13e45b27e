package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jonhuth/dsa/internal/step"
)

// Styled paints highlights with terminal colors.
type Styled struct {
	styles map[step.Color]lipgloss.Style
}

// NewStyled returns the default terminal palette.
func NewStyled() Styled {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
	}
	return Styled{styles: map[step.Color]lipgloss.Style{
		step.ColorPrimary:   fg("12"),
		step.ColorActive:    fg("11"),
		step.ColorComparing: fg("214"),
		step.ColorSwapped:   fg("9"),
		step.ColorSorted:    fg("10"),
		step.ColorVisited:   fg("8"),
		step.ColorFound:     fg("10").Underline(true),
		step.ColorPivot:     fg("13"),
		step.ColorMemo:      fg("14"),
		step.ColorPath:      fg("6").Underline(true),
	}}
}

func (s Styled) Paint(c step.Color, text string) string {
	st, ok := s.styles[c]
	if !ok {
		return text
	}
	return st.Render(text)
}
