package component

type ResourceKind string

const (
	ResourceNone ResourceKind = ""
	ResourceWood ResourceKind = "wood"
	ResourceGold ResourceKind = "gold"
)

// Worker holds the gathering orders of a unit that can harvest.
type Worker struct {
	Carry        ResourceKind
	Extract      ResourceKind
	ExtractTile  Tile
	GotoResource bool
	// ExtractTicks counts how long the current extraction lasted.
	ExtractTicks int
	// CarryAfter is how many extraction ticks fill the unit's load.
	CarryAfter int
}

// Gather sends the worker to harvest kind at tile.
func (w *Worker) Gather(kind ResourceKind, tile Tile) {
	w.Extract = kind
	w.ExtractTile = tile
	w.GotoResource = true
	w.ExtractTicks = 0
}

var WorkerComponent = NewComponent[Worker]()
