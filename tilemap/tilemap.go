// Package tilemap is the tile grid the simulation places and moves
// entities on.
package tilemap

import (
	"fmt"
	"iter"

	"github.com/milk9111/rts/ecs/component"
)

type Coord = component.Tile

const defaultMaxSearchRadius = 8

// Map is a fixed-size grid. Static obstacles are stored per tile; entity
// footprints are read through the occupants sequence so the map never holds
// stale positions.
type Map struct {
	Width  int
	Height int
	// MaxSearchRadius bounds FindFreeTileAround.
	MaxSearchRadius int

	blocked   []bool
	resources map[Coord]component.ResourceKind
	occupants iter.Seq[*component.Pathfindable]
}

func New(width, height int) *Map {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Map{
		Width:           width,
		Height:          height,
		MaxSearchRadius: defaultMaxSearchRadius,
		blocked:         make([]bool, width*height),
		resources:       make(map[Coord]component.ResourceKind),
	}
}

// Parse builds a map from rows of text: '.' is ground, '#' is a wall and
// 'T' is a tree (blocked, holds wood).
func Parse(rows []string) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("tilemap: empty layout")
	}
	m := New(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != m.Width {
			return nil, fmt.Errorf("tilemap: row %d has width %d, want %d", y, len(row), m.Width)
		}
		for x, c := range row {
			t := Coord{X: x, Y: y}
			switch c {
			case '.':
			case '#':
				m.SetBlocked(t, true)
			case 'T':
				m.SetBlocked(t, true)
				m.SetResource(t, component.ResourceWood)
			default:
				return nil, fmt.Errorf("tilemap: unknown tile %q at %d,%d", c, x, y)
			}
		}
	}
	return m, nil
}

func (m *Map) InBounds(t Coord) bool {
	return t.X >= 0 && t.Y >= 0 && t.X < m.Width && t.Y < m.Height
}

func (m *Map) SetBlocked(t Coord, blocked bool) {
	if !m.InBounds(t) {
		return
	}
	m.blocked[t.Y*m.Width+t.X] = blocked
}

// Blocked reports static obstacles; out of bounds counts as blocked.
func (m *Map) Blocked(t Coord) bool {
	if !m.InBounds(t) {
		return true
	}
	return m.blocked[t.Y*m.Width+t.X]
}

func (m *Map) SetResource(t Coord, kind component.ResourceKind) {
	if kind == component.ResourceNone {
		delete(m.resources, t)
		return
	}
	m.resources[t] = kind
}

func (m *Map) ResourceAt(t Coord) component.ResourceKind {
	return m.resources[t]
}

// SetOccupants installs the source of placed footprints.
func (m *Map) SetOccupants(seq iter.Seq[*component.Pathfindable]) {
	m.occupants = seq
}

// IsOccupied reports whether a placed footprint other than the ignored
// ones covers t.
func (m *Map) IsOccupied(t Coord, ignore ...*component.Pathfindable) bool {
	if m.occupants == nil {
		return false
	}
	for p := range m.occupants {
		if isIgnored(p, ignore) {
			continue
		}
		if p.Occupies(t) {
			return true
		}
	}
	return false
}

// IsFree reports an in-bounds, unblocked, unoccupied tile.
func (m *Map) IsFree(t Coord, ignore ...*component.Pathfindable) bool {
	return !m.Blocked(t) && !m.IsOccupied(t, ignore...)
}

func isIgnored(p *component.Pathfindable, ignore []*component.Pathfindable) bool {
	for _, ig := range ignore {
		if ig == p {
			return true
		}
	}
	return false
}

// NearestResource returns the closest tile holding kind, ties broken by
// row then column.
func (m *Map) NearestResource(from Coord, kind component.ResourceKind) (Coord, bool) {
	var best Coord
	bestDist := -1
	for t, k := range m.resources {
		if k != kind {
			continue
		}
		d := abs(t.X-from.X) + abs(t.Y-from.Y)
		if bestDist < 0 || d < bestDist || (d == bestDist && (t.Y < best.Y || (t.Y == best.Y && t.X < best.X))) {
			best, bestDist = t, d
		}
	}
	return best, bestDist >= 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
