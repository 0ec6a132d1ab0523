package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seating-backend/internal/model"
)

func TestBounds(t *testing.T) {
	testCases := []struct {
		name     string
		sections []model.Section
		expected Box
	}{
		{
			name:     "empty section list returns the floor minimums",
			sections: nil,
			expected: Box{Width: MinWidth, Height: MinHeight},
		},
		{
			name: "single table encloses the seat and the circular footprint",
			sections: []model.Section{
				{
					Kind:    model.SectionTable,
					OffsetX: 0,
					OffsetY: 0,
					Seats:   []model.Seat{{Label: "A1", X: 0, Y: -82}},
				},
			},
			// Footprint edges at +-80, seat center at (0,-82): the seat
			// pokes past the circle on the top edge. Both computed
			// dimensions stay under the floors.
			expected: Box{MinX: -80, MinY: -82, MaxX: 80, MaxY: 80, Width: MinWidth, Height: MinHeight},
		},
		{
			name: "counter section contributes no footprint",
			sections: []model.Section{
				{
					Kind:    model.SectionCounter,
					OffsetX: 100,
					OffsetY: 50,
					Seats: []model.Seat{
						{Label: "C1", X: 0, Y: 0},
						{Label: "C2", X: 60, Y: 0},
					},
				},
			},
			expected: Box{MinX: 100, MinY: 50, MaxX: 160, MaxY: 50, Width: MinWidth, Height: MinHeight},
		},
		{
			name: "spread layout exceeds the floors",
			sections: []model.Section{
				{
					Kind:    model.SectionTable,
					OffsetX: 0,
					OffsetY: 0,
					Seats:   []model.Seat{{Label: "A1", X: 0, Y: 0}},
				},
				{
					Kind:    model.SectionTable,
					OffsetX: 900,
					OffsetY: 400,
					Seats:   []model.Seat{{Label: "B1", X: 0, Y: 0}},
				},
			},
			// X extent: -80 .. 980, plus 200 on each side = 1460.
			// Y extent: -80 .. 480, plus margins = 960.
			expected: Box{MinX: -80, MinY: -80, MaxX: 980, MaxY: 480, Width: 1460, Height: 960},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Bounds(tc.sections, 0))
		})
	}
}

func TestBoundsIsDeterministic(t *testing.T) {
	sections := []model.Section{
		{
			Kind:    model.SectionTable,
			OffsetX: 42,
			OffsetY: -13,
			Seats:   []model.Seat{{X: 10, Y: 20}, {X: -30, Y: 5}},
		},
	}
	first := Bounds(sections, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Bounds(sections, 0))
	}
}

func TestBoundsCustomDiameter(t *testing.T) {
	sections := []model.Section{
		{Kind: model.SectionTable, OffsetX: 0, OffsetY: 0},
	}
	box := Bounds(sections, 1000)
	assert.Equal(t, float64(-500), box.MinX)
	assert.Equal(t, float64(500), box.MaxX)
	assert.Equal(t, float64(1400), box.Width)
	assert.Equal(t, float64(1400), box.Height)
}
