package system

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/fsm"
	"github.com/milk9111/rts/logger"
	"github.com/milk9111/rts/tilemap"
)

// loadPerTrip is what one full load deposits.
const loadPerTrip = 10

// UnitStateSystem drives the state machine of every unit in the world. A
// unit joins once it is placed and, if it was produced, production is done.
type UnitStateSystem struct {
	Map *tilemap.Map
}

func NewUnitStateSystem(m *tilemap.Map) *UnitStateSystem {
	return &UnitStateSystem{Map: m}
}

func (s *UnitStateSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.UnitBehaviorComponent.Kind(), func(e ecs.Entity, b *component.UnitBehavior) {
		if b.Machine == nil {
			if !inWorld(w, e) {
				return
			}
			s.start(w, e, b)
			return
		}

		if _, err := b.Machine.Update(s.context(w, e)); err != nil {
			panic(fmt.Sprintf("unit state: entity %s: %v", e, err))
		}
	})
}

func (s *UnitStateSystem) start(w *ecs.World, e ecs.Entity, b *component.UnitBehavior) {
	m := fsm.NewMachine(unitStateFactory(b.Scripted))
	m.OnTransition = func(from, to fsm.StateID) {
		logger.Log.WithFields(logrus.Fields{
			"entity": e.String(),
			"from":   string(from),
			"state":  string(to),
		}).Debug("unit state: transition")
		w.Emit(ecs.EventState, component.StateChangeEvent{Entity: uint64(e), From: from, To: to})
	}
	if err := m.Start(s.context(w, e), b.Initial); err != nil {
		panic(fmt.Sprintf("unit state: entity %s: start: %v", e, err))
	}
	b.Machine = m
	logger.Log.WithFields(logrus.Fields{
		"entity": e.String(),
		"state":  string(b.Initial),
	}).Debug("unit state: started")
}

// inWorld reports a placed unit whose production, if any, finished.
func inWorld(w *ecs.World, e ecs.Entity) bool {
	pf, ok := ecs.Get(w, e, component.PathfindableComponent.Kind())
	if !ok || !pf.Placed {
		return false
	}
	if p, ok := ecs.Get(w, e, component.ProducibleComponent.Kind()); ok && p.Status() != component.ProductionDone {
		return false
	}
	return true
}

func (s *UnitStateSystem) context(w *ecs.World, e ecs.Entity) *component.UnitContext {
	ctx := &component.UnitContext{}
	ctx.Animation, _ = ecs.Get(w, e, component.AnimationComponent.Kind())
	ctx.Sfx, _ = ecs.Get(w, e, component.SfxComponent.Kind())
	ctx.Pathfindable, _ = ecs.Get(w, e, component.PathfindableComponent.Kind())
	ctx.Worker, _ = ecs.Get(w, e, component.WorkerComponent.Kind())
	ctx.Stats, _ = ecs.Get(w, e, component.StatsComponent.Kind())
	ctx.Snapshot = snapshot(e, ctx)

	ctx.ChangeAnimation = func(name string) {
		ctx.Animation.Play(name)
	}
	ctx.ReleaseTile = func() {
		if ctx.Pathfindable != nil {
			ctx.Pathfindable.Stop()
			ctx.Pathfindable.Placed = false
		}
	}
	ctx.ReturnCargo = func() bool {
		return s.returnCargo(w, ctx.Pathfindable)
	}
	ctx.Deposit = func() bool {
		return deposit(w, ctx.Pathfindable, ctx.Worker, s.Map)
	}
	return ctx
}

func snapshot(e ecs.Entity, ctx *component.UnitContext) component.UnitSnapshot {
	snap := component.UnitSnapshot{Entity: uint64(e), HealthPercent: 100}
	if ctx.Stats != nil {
		snap.HealthPercent = ctx.Stats.HealthPercent()
	}
	if pf := ctx.Pathfindable; pf != nil {
		snap.MoveStarted = pf.MoveStarted
	}
	if wk := ctx.Worker; wk != nil {
		snap.GotoResource = wk.GotoResource
		snap.Carry = wk.Carry
		snap.Extract = wk.Extract
		if ctx.Pathfindable != nil && wk.Extract != component.ResourceNone {
			snap.AtResource = adjacent(ctx.Pathfindable, wk.ExtractTile)
		}
	}
	if a := ctx.Animation; a != nil {
		snap.Frame = a.Frame
		snap.AnimFinished = a.Finished()
	}
	return snap
}

// adjacent reports whether t touches p's footprint, diagonals included.
func adjacent(p *component.Pathfindable, t component.Tile) bool {
	if p == nil || !p.Placed || p.Occupies(t) {
		return false
	}
	w, h := p.Size()
	return t.X >= p.Tile.X-1 && t.X <= p.Tile.X+w && t.Y >= p.Tile.Y-1 && t.Y <= p.Tile.Y+h
}

func (s *UnitStateSystem) returnCargo(w *ecs.World, pf *component.Pathfindable) bool {
	if pf == nil || s.Map == nil {
		return false
	}
	drop, ok := nearestDropOff(w, pf)
	if !ok {
		return false
	}
	tile, _ := s.Map.FindFreeTileAround(pf, drop)
	if tile == pf.Tile {
		return false
	}
	pf.MoveTo(tile)
	return true
}

// nearestDropOff returns the closest placed structure with a Producer.
func nearestDropOff(w *ecs.World, from *component.Pathfindable) (*component.Pathfindable, bool) {
	var best *component.Pathfindable
	bestDist := -1
	ecs.ForEach2(w, component.ProducerComponent.Kind(), component.PathfindableComponent.Kind(), func(_ ecs.Entity, _ *component.Producer, pf *component.Pathfindable) {
		if !pf.Placed {
			return
		}
		d := manhattan(from.Tile, pf.Tile)
		if bestDist < 0 || d < bestDist {
			best, bestDist = pf, d
		}
	})
	return best, best != nil
}

func deposit(w *ecs.World, pf *component.Pathfindable, wk *component.Worker, m *tilemap.Map) bool {
	if pf == nil || wk == nil || wk.Carry == component.ResourceNone {
		return false
	}
	drop, ok := nearestDropOff(w, pf)
	if !ok || !touching(pf, drop) {
		return false
	}
	if pe, ok := ecs.First(w, component.PlayerComponent.Kind()); ok {
		player, _ := ecs.Get(w, pe, component.PlayerComponent.Kind())
		switch wk.Carry {
		case component.ResourceWood:
			player.IncreaseWood(loadPerTrip)
		case component.ResourceGold:
			player.IncreaseGold(loadPerTrip)
		}
	}
	wk.Carry = component.ResourceNone
	if wk.Extract != component.ResourceNone && m != nil {
		tree := &component.Pathfindable{Tile: wk.ExtractTile, Width: 1, Height: 1, Placed: true}
		if tile, ok := m.FindFreeTileAround(pf, tree); ok {
			pf.MoveTo(tile)
		}
	}
	return true
}

// touching reports whether a's footprint is next to b's.
func touching(a, b *component.Pathfindable) bool {
	aw, ah := a.Size()
	bw, bh := b.Size()
	return a.Tile.X <= b.Tile.X+bw && a.Tile.X+aw >= b.Tile.X &&
		a.Tile.Y <= b.Tile.Y+bh && a.Tile.Y+ah >= b.Tile.Y
}

func manhattan(a, b component.Tile) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
