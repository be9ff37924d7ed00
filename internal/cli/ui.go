package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	pkgio "github.com/thoth-station/solver-project-url/pkg/io"
	"github.com/thoth-station/solver-project-url/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - titles
	colorGreen = lipgloss.Color("35")  // Green - success
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - labels
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	iconSuccess = "✓"
	iconArrow   = "→"
)

// =============================================================================
// Run Summary
// =============================================================================

// printSummary writes the end-of-run report to w. It never touches stdout,
// which may carry the YAML result.
func printSummary(w io.Writer, name string, st pipeline.Stats, output string) {
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" "+styleTitle.Render(name))
	printKeyValue(w, "documents", fmt.Sprintf("%d (%d skipped)", st.Documents, st.Skipped))
	printKeyValue(w, "candidates", fmt.Sprint(st.Candidates))
	printKeyValue(w, "probes", fmt.Sprint(st.Probes))
	printKeyValue(w, "validated", fmt.Sprint(st.Validated))
	printKeyValue(w, "packages", fmt.Sprint(st.Packages))
	printKeyValue(w, "duration", st.Duration.Round(time.Millisecond).String())

	dest := "stdout"
	if output != "" && output != pkgio.Stdout {
		dest = output
	}
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(dest))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleLabel.Render(key)+" "+styleValue.Render(value))
}
