// Package geometry computes the bounding box of a layout for canvas
// sizing. It is pure: the same sections always produce the same box.
package geometry

import "seating-backend/internal/model"

// Canvas sizing constants, in layout units.
const (
	MinWidth      = 800
	MinHeight     = 600
	Margin        = 200 // padding applied to each side of the computed extent
	TableDiameter = 160 // default footprint of a table section
)

// Box is the computed canvas bounding box. MinX..MaxY span every seat
// center and every table footprint edge, before the margin is applied.
type Box struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	MaxX   float64 `json:"maxX"`
	MaxY   float64 `json:"maxY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds computes the canvas box for the given sections. Each seat
// contributes its absolute center (section offset + seat offset); a table
// section additionally contributes a circular footprint of the given
// diameter centered on its offset. A non-positive diameter selects
// TableDiameter. Empty input returns the floor minimums.
func Bounds(sections []model.Section, diameter float64) Box {
	if diameter <= 0 {
		diameter = TableDiameter
	}
	radius := diameter / 2

	var (
		minX, minY, maxX, maxY float64
		seen                   bool
	)
	include := func(x, y float64) {
		if !seen {
			minX, maxX, minY, maxY = x, x, y, y
			seen = true
			return
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	for _, section := range sections {
		if section.Kind == model.SectionTable {
			include(section.OffsetX-radius, section.OffsetY-radius)
			include(section.OffsetX+radius, section.OffsetY+radius)
		}
		for _, seat := range section.Seats {
			include(section.OffsetX+seat.X, section.OffsetY+seat.Y)
		}
	}

	if !seen {
		return Box{Width: MinWidth, Height: MinHeight}
	}

	width := (maxX - minX) + 2*Margin
	height := (maxY - minY) + 2*Margin
	if width < MinWidth {
		width = MinWidth
	}
	if height < MinHeight {
		height = MinHeight
	}
	return Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY, Width: width, Height: height}
}
