package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray    = "#353b52"
	colorWhite   = "#ffffff"
	colorGreen   = "#acfab4"
	colorRed     = "#e61f44"
	colorRedDim  = "#d06178"
	colorPurple  = "#b9a3eb"
	colorBlue    = "#89ddff"
	colorDimText = "#7f85a3"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	errorTitleStyle = titleStyle.
			Foreground(lipgloss.Color(colorRed))
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPurple)).
			Padding(0, 1)
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	textRedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(colorGray))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorDimText))
)

// Generates pointer symbol when line in focus
func generateLinePointer(isPoint bool, length int) string {
	if isPoint {
		return ">" + strings.Repeat(" ", length-1)
	}
	return strings.Repeat(" ", length)
}
