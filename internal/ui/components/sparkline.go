package components

import (
	"strings"
)

// Sparkline characters: U+2581 to U+2588
var sparkBars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// idleMark stands in for days without any commit
const idleMark = '·'

// RenderSparkline converts counts to a unicode sparkline scaled from zero,
// so equal non-zero counts render as full bars and zero renders as idleMark
func RenderSparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}

	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	var sb strings.Builder
	for _, v := range values {
		if v <= 0 || max == 0 {
			sb.WriteRune(idleMark)
			continue
		}
		// 1..max maps onto the bar range; any activity gets at least the lowest bar
		idx := (v*len(sparkBars) - 1) / max
		if idx >= len(sparkBars) {
			idx = len(sparkBars) - 1
		}
		sb.WriteRune(sparkBars[idx])
	}

	return sb.String()
}

// RenderSparklineWithWidth renders sparkline folded to at most targetWidth
// columns. Folded columns carry the sum of their days.
func RenderSparklineWithWidth(values []int, targetWidth int) string {
	if len(values) == 0 || targetWidth <= 0 {
		return ""
	}

	if len(values) <= targetWidth {
		return RenderSparkline(values)
	}

	buckets := make([]int, targetWidth)
	for i, v := range values {
		buckets[i*targetWidth/len(values)] += v
	}

	return RenderSparkline(buckets)
}
