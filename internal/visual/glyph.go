// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package visual

import (
	"hash/fnv"
	"math"
	"strings"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// =============================================================================
// GLYPH SELECTION
// =============================================================================

// Glyph is the animated figure drawn inside a diagnostic panel.
type Glyph int

const (
	GlyphHexGrid Glyph = iota
	GlyphCube
	GlyphRadar
	GlyphWave
)

func (g Glyph) String() string {
	switch g {
	case GlyphCube:
		return "cube"
	case GlyphRadar:
		return "radar"
	case GlyphWave:
		return "wave"
	default:
		return "hexgrid"
	}
}

// Keyword lists are checked in order; the first hit wins.
var glyphKeywords = []struct {
	glyph    Glyph
	keywords []string
}{
	{GlyphCube, []string{"ENGINE", "DRIVE", "CORE", "REACTOR", "THRUSTER"}},
	{GlyphRadar, []string{"SENSOR", "SCAN", "RADAR", "LIDAR", "PROBE"}},
	{GlyphWave, []string{"COMM", "SIGNAL", "RADIO", "TRANSMISSION", "ANTENNA"}},
}

// GlyphFor picks the figure for a system name by substring keyword.
func GlyphFor(name string) Glyph {
	upper := ship.Normalize(name)
	for _, entry := range glyphKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(upper, kw) {
				return entry.glyph
			}
		}
	}
	return GlyphHexGrid
}

// Integrity is the percentage shown on the integrity bar for a status.
func Integrity(status ship.Status) float64 {
	switch status {
	case ship.StatusOptimal:
		return 100
	case ship.StatusDamaged:
		return 60
	case ship.StatusCritical:
		return 25
	default:
		return 0
	}
}

// =============================================================================
// FIGURES
// =============================================================================

var cubeFrames = [][]string{
	{
		"   +------+",
		"  /|     /|",
		" +------+ |",
		" | +----|-+",
		" |/     |/ ",
		" +------+  ",
	},
	{
		" +------+  ",
		" |\\     |\\ ",
		" | +------+",
		" +-|----+ |",
		"  \\|     \\|",
		"   +------+",
	},
}

var radarFrames = [][]string{
	{
		"  .-'''-.  ",
		" /   |   \\ ",
		"|    +----|",
		" \\       / ",
		"  '-...-'  ",
	},
	{
		"  .-'''-.  ",
		" /       \\ ",
		"|    +    |",
		" \\    \\  / ",
		"  '-...-'  ",
	},
	{
		"  .-'''-.  ",
		" /       \\ ",
		"|----+    |",
		" \\       / ",
		"  '-...-'  ",
	},
	{
		"  .-'''-.  ",
		" /  \\    \\ ",
		"|    +    |",
		" \\       / ",
		"  '-...-'  ",
	},
}

const (
	waveBars   = 20
	waveHeight = 4
	hexCells   = 28
	hexColumns = 7
)

// Figure returns the glyph's lines for an animation frame. Frames wrap, so
// any non-negative counter works. seed varies the hex grid between systems.
func Figure(g Glyph, status ship.Status, frame int, seed string) []string {
	if frame < 0 {
		frame = 0
	}
	switch g {
	case GlyphCube:
		return cubeFrames[frame%len(cubeFrames)]
	case GlyphRadar:
		return radarFrames[frame%len(radarFrames)]
	case GlyphWave:
		return wave(frame)
	default:
		return hexGrid(status, frame, seed)
	}
}

// wave draws bar heights following a sine shifted by the frame.
func wave(frame int) []string {
	heights := make([]int, waveBars)
	for i := range heights {
		v := math.Sin(float64(i+frame) * 0.6)
		heights[i] = 1 + int(math.Round(float64(waveHeight-1)*(v+1)/2))
	}

	lines := make([]string, waveHeight)
	for row := 0; row < waveHeight; row++ {
		level := waveHeight - row
		var sb strings.Builder
		for i, h := range heights {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if h >= level {
				sb.WriteByte('|')
			} else {
				sb.WriteByte(' ')
			}
		}
		lines[row] = sb.String()
	}
	return lines
}

// hexGrid lights roughly three cells in ten. An OFFLINE system shows
// every cell dark.
func hexGrid(status ship.Status, frame int, seed string) []string {
	rows := hexCells / hexColumns
	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var sb strings.Builder
		if r%2 == 1 {
			sb.WriteString("  ")
		}
		for c := 0; c < hexColumns; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			cell := r*hexColumns + c
			switch {
			case status == ship.StatusOffline:
				sb.WriteString("<.>")
			case lit(seed, frame, cell):
				sb.WriteString("<#>")
			default:
				sb.WriteString("< >")
			}
		}
		lines[r] = sb.String()
	}
	return lines
}

func lit(seed string, frame, cell int) bool {
	h := fnv.New32a()
	h.Write([]byte(seed))
	h.Write([]byte{byte(frame), byte(frame >> 8), byte(cell)})
	return h.Sum32()%10 < 3
}
