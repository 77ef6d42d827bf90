package tilemap

import "github.com/milk9111/rts/ecs/component"

// FindFreeTileAround returns a tile next to reference's footprint where
// target can stand. Rings of growing radius are scanned clockwise from the
// top-left corner, so the result is deterministic and never inside the
// reference footprint. When no ring up to MaxSearchRadius has a free tile
// the first in-bounds tile of ring 1 is returned with ok=false; callers
// place there and let movement sort the overlap out.
func (m *Map) FindFreeTileAround(target, reference *component.Pathfindable) (Coord, bool) {
	maxRadius := m.MaxSearchRadius
	if maxRadius < 1 {
		maxRadius = defaultMaxSearchRadius
	}
	for r := 1; r <= maxRadius; r++ {
		for _, t := range ring(reference, r) {
			if m.IsFree(t, target) {
				return t, true
			}
		}
	}
	for _, t := range ring(reference, 1) {
		if m.InBounds(t) {
			return t, false
		}
	}
	return reference.Tile, false
}

// ring lists the perimeter at distance r around p's footprint: top row left
// to right, right column down, bottom row right to left, left column up.
func ring(p *component.Pathfindable, r int) []Coord {
	w, h := p.Size()
	x0, y0 := p.Tile.X-r, p.Tile.Y-r
	x1, y1 := p.Tile.X+w-1+r, p.Tile.Y+h-1+r

	out := make([]Coord, 0, 2*(x1-x0+y1-y0))
	for x := x0; x <= x1; x++ {
		out = append(out, Coord{X: x, Y: y0})
	}
	for y := y0 + 1; y <= y1; y++ {
		out = append(out, Coord{X: x1, Y: y})
	}
	for x := x1 - 1; x >= x0; x-- {
		out = append(out, Coord{X: x, Y: y1})
	}
	for y := y1 - 1; y > y0; y-- {
		out = append(out, Coord{X: x0, Y: y})
	}
	return out
}
