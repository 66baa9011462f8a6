package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))
)

type field struct {
	label string
	value string
}

// panel renders a titled box of label/value rows.
func panel(title string, fields []field) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString(valueStyle.Render(f.value))
	}
	return panelStyle.Render(b.String())
}

func metricFields(m map[string]float64) []field {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]field, 0, len(names))
	for _, name := range names {
		fields = append(fields, field{name, fmt.Sprintf("%.6g", m[name])})
	}
	return fields
}

func formatSeries(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%.4g", x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
