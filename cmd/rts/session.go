package main

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/rts/action"
	"github.com/milk9111/rts/config"
	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/ecs/entity"
	"github.com/milk9111/rts/ecs/system"
	"github.com/milk9111/rts/logger"
	"github.com/milk9111/rts/sound"
	"github.com/milk9111/rts/tilemap"
)

// session is one running match shared by play and sim.
type session struct {
	world     *ecs.World
	tiles     *tilemap.Map
	sched     *ecs.Scheduler
	factory   *entity.Factory
	player    *component.Player
	selection *component.Selection
	actions   []*action.ProduceAction

	produced map[string]int
}

var startingStructures = []struct {
	media string
	tile  component.Tile
}{
	{"townhall", component.Tile{X: 2, Y: 2}},
	{"barracks", component.Tile{X: 2, Y: 11}},
}

func newSession(s config.Settings, snd sound.Player) (*session, error) {
	tiles, err := tilemap.Parse(s.Layout)
	if err != nil {
		return nil, err
	}
	w := ecs.NewWorld()
	sess := &session{
		world:   w,
		tiles:   tiles,
		factory: entity.NewFactory(w),
		sched: ecs.NewScheduler(
			system.NewMovementSystem(tiles),
			system.NewAnimationSystem(),
			system.NewUnitStateSystem(tiles),
			system.NewProductionSystem(),
			system.NewAudioSystem(snd),
		),
		produced: make(map[string]int),
	}
	tiles.SetOccupants(system.Occupants(w))

	pe, err := entity.NewPlayer(w, "player", s.Wood, s.Gold, s.FoodMax)
	if err != nil {
		return nil, err
	}
	sess.player, _ = ecs.Get(w, pe, component.PlayerComponent.Kind())
	se, err := entity.NewSelection(w)
	if err != nil {
		return nil, err
	}
	sess.selection, _ = ecs.Get(w, se, component.SelectionComponent.Kind())

	var medias []string
	for _, st := range startingStructures {
		e, err := sess.factory.CreateAt(st.media, st.tile)
		if err != nil {
			return nil, fmt.Errorf("spawn %s: %w", st.media, err)
		}
		if prod, ok := ecs.Get(w, e, component.ProducerComponent.Kind()); ok {
			for _, m := range prod.Produces {
				if !slices.Contains(medias, m) {
					medias = append(medias, m)
				}
			}
		}
	}
	if _, err := sess.factory.CreateAt("peasant", component.Tile{X: 6, Y: 3}); err != nil {
		return nil, fmt.Errorf("spawn peasant: %w", err)
	}

	deps := action.Deps{
		World:      w,
		Ledger:     sess.player,
		Factory:    sess.factory,
		Selection:  sess.selection,
		Pathfinder: tiles,
	}
	for _, m := range medias {
		a, err := action.Load(deps, m)
		if err != nil {
			return nil, err
		}
		sess.actions = append(sess.actions, a)
	}
	return sess, nil
}

// step runs one tick and reacts to what happened in it.
func (s *session) step() {
	s.sched.Update(s.world)
	for _, ev := range s.world.Events().Drain() {
		pe, ok := ev.Data.(component.ProductionEvent)
		if !ok || pe.Kind != component.ProductionEnded {
			continue
		}
		s.produced[pe.Media]++
		s.sendToWork(ecs.Entity(pe.Produced))
	}
}

// sendToWork puts a fresh worker on the nearest tree.
func (s *session) sendToWork(e ecs.Entity) {
	pf, ok := ecs.Get(s.world, e, component.PathfindableComponent.Kind())
	if !ok || !ecs.Has(s.world, e, component.WorkerComponent.Kind()) {
		return
	}
	tree, ok := s.tiles.NearestResource(pf.Tile, component.ResourceWood)
	if !ok {
		return
	}
	if !system.OrderGather(s.world, s.tiles, e, tree) {
		logger.Log.WithFields(logrus.Fields{"entity": e.String(), "tile": tree}).Debug("session: gather order rejected")
	}
}

func (s *session) action(media string) *action.ProduceAction {
	for _, a := range s.actions {
		if a.Media() == media {
			return a
		}
	}
	return nil
}

// producersOf returns the structures able to build media.
func (s *session) producersOf(media string) []uint64 {
	var out []uint64
	ecs.ForEach(s.world, component.ProducerComponent.Kind(), func(e ecs.Entity, p *component.Producer) {
		if slices.Contains(p.Produces, media) {
			out = append(out, uint64(e))
		}
	})
	return out
}

// produce selects every producer of media and activates its button.
func (s *session) produce(media string) bool {
	a := s.action(media)
	if a == nil {
		logger.Log.WithField("media", media).Warn("session: nothing produces this")
		return false
	}
	s.selection.Select(s.producersOf(media)...)
	if _, ok := a.Activate(); !ok {
		logger.Log.WithFields(logrus.Fields{
			"media": media,
			"wood":  s.player.Wood,
			"gold":  s.player.Gold,
		}).Info("session: cannot afford")
		return false
	}
	return true
}

// entityAt returns the placed entity covering tile, preferring units over
// structures.
func (s *session) entityAt(tile component.Tile) (ecs.Entity, bool) {
	var found ecs.Entity
	var area int
	ecs.ForEach(s.world, component.PathfindableComponent.Kind(), func(e ecs.Entity, pf *component.Pathfindable) {
		if !pf.Occupies(tile) {
			return
		}
		w, h := pf.Size()
		if found == 0 || w*h < area {
			found, area = e, w*h
		}
	})
	return found, found != 0
}

// order sends the selected units to tile, gathering when it holds a
// resource.
func (s *session) order(tile component.Tile) {
	for _, raw := range s.selection.Entities() {
		e := ecs.Entity(raw)
		if s.tiles.ResourceAt(tile) != component.ResourceNone && system.OrderGather(s.world, s.tiles, e, tile) {
			continue
		}
		system.OrderMove(s.world, e, tile)
	}
}
