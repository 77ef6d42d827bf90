package system

import (
	"iter"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/tilemap"
)

// MovementSystem walks units along A* paths one tile at a time.
type MovementSystem struct {
	Map *tilemap.Map
}

func NewMovementSystem(m *tilemap.Map) *MovementSystem {
	return &MovementSystem{Map: m}
}

func (ms *MovementSystem) Update(w *ecs.World) {
	if ms == nil || ms.Map == nil || w == nil {
		return
	}
	ms.Map.SetOccupants(Occupants(w))

	ecs.ForEach(w, component.PathfindableComponent.Kind(), func(_ ecs.Entity, pf *component.Pathfindable) {
		if !pf.Placed || !pf.MoveStarted || pf.Destination == nil {
			return
		}
		dest := *pf.Destination
		if pf.Tile == dest {
			pf.Stop()
			return
		}
		if pf.TicksPerTile <= 0 {
			pf.Stop()
			return
		}
		if len(pf.Path) == 0 {
			pf.Path = ms.Map.FindPath(pf.Tile, dest, pf)
			if len(pf.Path) == 0 {
				pf.Stop()
				return
			}
		}

		pf.MoveTimer++
		if pf.MoveTimer < pf.TicksPerTile {
			return
		}
		pf.MoveTimer = 0

		next := pf.Path[0]
		if !ms.Map.IsFree(next, pf) {
			// something stepped in the way, plan again next tick
			pf.Path = nil
			return
		}
		pf.Tile = next
		pf.Path = pf.Path[1:]
		if pf.Tile == dest {
			pf.Stop()
		}
	})
}

// Occupants yields every placed footprint in the world.
func Occupants(w *ecs.World) iter.Seq[*component.Pathfindable] {
	return func(yield func(*component.Pathfindable) bool) {
		stop := false
		ecs.ForEach(w, component.PathfindableComponent.Kind(), func(_ ecs.Entity, pf *component.Pathfindable) {
			if stop || !pf.Placed {
				return
			}
			if !yield(pf) {
				stop = true
			}
		})
	}
}

// OrderMove sends e to tile.
func OrderMove(w *ecs.World, e ecs.Entity, tile component.Tile) bool {
	pf, ok := ecs.Get(w, e, component.PathfindableComponent.Kind())
	if !ok || !pf.Placed || pf.TicksPerTile <= 0 {
		return false
	}
	if wk, ok := ecs.Get(w, e, component.WorkerComponent.Kind()); ok {
		wk.Extract = component.ResourceNone
		wk.GotoResource = false
	}
	pf.MoveTo(tile)
	return true
}

// OrderGather sends a worker to harvest the resource at tile.
func OrderGather(w *ecs.World, m *tilemap.Map, e ecs.Entity, tile component.Tile) bool {
	pf, ok := ecs.Get(w, e, component.PathfindableComponent.Kind())
	if !ok || !pf.Placed {
		return false
	}
	wk, ok := ecs.Get(w, e, component.WorkerComponent.Kind())
	if !ok {
		return false
	}
	kind := m.ResourceAt(tile)
	if kind == component.ResourceNone {
		return false
	}
	if adjacent(pf, tile) {
		wk.Gather(kind, tile)
		return true
	}
	m.SetOccupants(Occupants(w))
	resource := &component.Pathfindable{Tile: tile, Width: 1, Height: 1, Placed: true}
	stand, free := m.FindFreeTileAround(pf, resource)
	if !free {
		return false
	}
	wk.Gather(kind, tile)
	pf.MoveTo(stand)
	return true
}
