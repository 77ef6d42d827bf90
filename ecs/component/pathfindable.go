package component

// Tile is a map coordinate in tiles.
type Tile struct {
	X int
	Y int
}

// Pathfindable is the tile-space body of an entity. Width and Height give
// the footprint anchored at Tile (top-left).
type Pathfindable struct {
	Tile   Tile
	Width  int
	Height int
	Placed bool

	// TicksPerTile is the walking speed, zero means immobile.
	TicksPerTile int
	Destination  *Tile
	Path         []Tile
	MoveStarted  bool
	MoveTimer    int
}

// Occupies reports whether t is under the footprint.
func (p *Pathfindable) Occupies(t Tile) bool {
	if p == nil || !p.Placed {
		return false
	}
	w, h := p.Size()
	return t.X >= p.Tile.X && t.X < p.Tile.X+w && t.Y >= p.Tile.Y && t.Y < p.Tile.Y+h
}

// Size returns the footprint, at least one tile.
func (p *Pathfindable) Size() (int, int) {
	w, h := p.Width, p.Height
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// SetLocation teleports the entity, placing it in the world and dropping
// any movement order.
func (p *Pathfindable) SetLocation(t Tile) {
	p.Tile = t
	p.Placed = true
	p.Stop()
}

// MoveTo orders a walk to dest; MovementSystem plans the path.
func (p *Pathfindable) MoveTo(dest Tile) {
	d := dest
	p.Destination = &d
	p.Path = nil
	p.MoveStarted = true
	p.MoveTimer = 0
}

func (p *Pathfindable) Stop() {
	p.Destination = nil
	p.Path = nil
	p.MoveStarted = false
	p.MoveTimer = 0
}

var PathfindableComponent = NewComponent[Pathfindable]()
