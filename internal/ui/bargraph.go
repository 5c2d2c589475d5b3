package ui

import (
	"strings"
	"time"
)

// Bar block characters, full block plus eighth fractions for a smooth edge.
const (
	barFull      = "█"
	barFractions = "▏▎▍▌▋▊▉"
)

// Bar renders a horizontal accent-colored bar proportional to d/max, at
// most width cells wide. Any non-zero duration shows at least a sliver.
func Bar(d, max time.Duration, width int) string {
	if max <= 0 || d <= 0 || width <= 0 {
		return ""
	}
	cells := float64(width) * float64(d) / float64(max)
	full := int(cells)
	if full > width {
		full = width
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(barFull, full))
	if full < width {
		if frac := int((cells - float64(full)) * 8); frac > 0 {
			sb.WriteString(string([]rune(barFractions)[frac-1]))
		} else if full == 0 {
			sb.WriteString(string([]rune(barFractions)[0]))
		}
	}
	return Accent.Render(sb.String())
}

// TreePrefix returns the indentation for a nested row ("└─ " under its
// parent), matching the depth of the project in the tree.
func TreePrefix(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("  ", depth-1) + "└─ "
}
