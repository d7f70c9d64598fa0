package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntensity(t *testing.T) {
	assert.Equal(t, 0, intensity(0, 4))
	assert.Equal(t, 0, intensity(3, 0))
	assert.Equal(t, 1, intensity(1, 4))
	assert.Equal(t, 2, intensity(2, 4))
	assert.Equal(t, 4, intensity(4, 4))
	assert.Equal(t, 4, intensity(1, 1))
	assert.Equal(t, 1, intensity(1, 10))
}

func TestRenderHeatmap(t *testing.T) {
	var m [7][24]int
	m[0][9] = 2
	m[6][23] = 1

	out := RenderHeatmap(m, 2)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "00")
	assert.Contains(t, lines[0], "18")
	assert.True(t, strings.HasPrefix(lines[1], "[yellow]Mon[-] "))
	assert.Equal(t, 24, strings.Count(lines[1], "█"))
	assert.Equal(t, 1, strings.Count(lines[1], "[red]█"))
	assert.Equal(t, 23, strings.Count(lines[1], "[gray]█"))
	assert.Equal(t, 1, strings.Count(lines[7], "[green]█"))
}

func TestPeakLabel(t *testing.T) {
	assert.Equal(t, "", PeakLabel(0, 0, 0))
	assert.Equal(t, "Peak: Wed 14:00 (5 commits)", PeakLabel(2, 14, 5))
}
