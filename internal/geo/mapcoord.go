// Package geo converts between rendered map pixels and the fixed logical
// coordinate space permit markers are stored in. Positions are persisted in
// logical coordinates so markers stay put across viewport sizes.
package geo

import "github.com/pkg/errors"

const (
	LogicalWidth  = 800.0
	LogicalHeight = 600.0
)

// ToLogical converts a click offset on a rendered map of the given size into
// logical coordinates via linear scaling, clamped to the logical bounds.
func ToLogical(offsetX, offsetY, renderedWidth, renderedHeight float64) (x, y float64, err error) {
	if renderedWidth <= 0 || renderedHeight <= 0 {
		return 0, 0, errors.Errorf("invalid rendered map size %gx%g", renderedWidth, renderedHeight)
	}
	x = clamp(offsetX/renderedWidth*LogicalWidth, 0, LogicalWidth)
	y = clamp(offsetY/renderedHeight*LogicalHeight, 0, LogicalHeight)
	return x, y, nil
}

// ToRendered converts a stored logical position back to pixels on a rendered
// map of the given size.
func ToRendered(logicalX, logicalY, renderedWidth, renderedHeight float64) (x, y float64, err error) {
	if renderedWidth <= 0 || renderedHeight <= 0 {
		return 0, 0, errors.Errorf("invalid rendered map size %gx%g", renderedWidth, renderedHeight)
	}
	return logicalX / LogicalWidth * renderedWidth, logicalY / LogicalHeight * renderedHeight, nil
}

// InBounds reports whether a logical position lies on the map.
func InBounds(x, y float64) bool {
	return x >= 0 && x <= LogicalWidth && y >= 0 && y <= LogicalHeight
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
