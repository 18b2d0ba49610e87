package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyGradient renders text with a horizontal color gradient.
func ApplyGradient(text string, from, to lipgloss.Color) string {
	return applyGradient(text, false, from, to)
}

// ApplyBoldGradient renders bold text with a horizontal color gradient.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	return applyGradient(text, true, from, to)
}

func applyGradient(text string, bold bool, from, to lipgloss.Color) string {
	clusters := graphemes(text)
	if len(clusters) == 0 {
		return ""
	}

	ramp := Blend(len(clusters), from, to)

	var b strings.Builder
	for i, cluster := range clusters {
		style := lipgloss.NewStyle().Foreground(ramp[i]).Bold(bold)
		b.WriteString(style.Render(cluster))
	}
	return b.String()
}

func graphemes(text string) []string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	return clusters
}

// Blend returns size hex colors from "from" to "to", interpolated in HCL
// space. Colors that are not #rrggbb are treated as mid gray.
func Blend(size int, from, to lipgloss.Color) []lipgloss.Color {
	if size <= 0 {
		return nil
	}
	if size == 1 {
		return []lipgloss.Color{from}
	}

	c1 := parseHex(from)
	c2 := parseHex(to)

	ramp := make([]lipgloss.Color, size)
	ramp[0] = lipgloss.Color(c1.Hex())
	ramp[size-1] = lipgloss.Color(c2.Hex())
	for i := 1; i < size-1; i++ {
		t := float64(i) / float64(size-1)
		ramp[i] = lipgloss.Color(c1.BlendHcl(c2, t).Clamped().Hex())
	}
	return ramp
}

func parseHex(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
