package components

import (
	"fmt"
	"strings"
)

// Weekday labels (Monday first)
var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Heat intensity colors for tview
var heatColors = []string{"gray", "blue", "green", "yellow", "red"}

// RenderHeatmap draws one cell per hour and one row per weekday. An hour
// without commits stays gray.
func RenderHeatmap(matrix [7][24]int, maxValue int) string {
	var sb strings.Builder

	// Header: hours (every 6 hours)
	sb.WriteString("    ")
	for h := 0; h < 24; h += 6 {
		fmt.Fprintf(&sb, "[white]%-6s[-]", fmt.Sprintf("%02d", h))
	}
	sb.WriteString("\n")

	for day := 0; day < 7; day++ {
		fmt.Fprintf(&sb, "[yellow]%s[-] ", weekdays[day])
		for hour := 0; hour < 24; hour++ {
			fmt.Fprintf(&sb, "[%s]█[-]", heatColors[intensity(matrix[day][hour], maxValue)])
		}
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func intensity(val, maxValue int) int {
	if maxValue <= 0 || val <= 0 {
		return 0
	}
	top := len(heatColors) - 1
	// rounded up so the busiest slot always reaches the top color
	i := (val*top + maxValue - 1) / maxValue
	if i > top {
		i = top
	}
	return i
}

// PeakLabel describes the busiest slot, or an empty string when idle
func PeakLabel(day, hour, count int) string {
	if count == 0 || day < 0 || day >= len(weekdays) {
		return ""
	}
	return fmt.Sprintf("Peak: %s %02d:00 (%d commits)", weekdays[day], hour, count)
}
