// Package action holds the player commands bound to HUD buttons.
package action

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/logger"
	"github.com/milk9111/rts/prefabs"
)

// Ledger is the player's resource account.
type Ledger interface {
	IsAvailableFood() bool
	IsAvailableWood(n int) bool
	IsAvailableGold(n int) bool
	DecreaseWood(n int)
	DecreaseGold(n int)
}

// Factory instantiates a prefab by media name.
type Factory interface {
	Create(media string) (ecs.Entity, error)
}

// Selection lists the selected entities in selection order.
type Selection interface {
	Entities() []uint64
}

// Pathfinder finds where a finished unit can stand.
type Pathfinder interface {
	FindFreeTileAround(target, reference *component.Pathfindable) (component.Tile, bool)
}

type Deps struct {
	World      *ecs.World
	Ledger     Ledger
	Factory    Factory
	Selection  Selection
	Pathfinder Pathfinder
}

func (d Deps) validate() error {
	switch {
	case d.World == nil:
		return fmt.Errorf("action: world is nil")
	case d.Ledger == nil:
		return fmt.Errorf("action: ledger is nil")
	case d.Factory == nil:
		return fmt.Errorf("action: factory is nil")
	case d.Selection == nil:
		return fmt.Errorf("action: selection is nil")
	case d.Pathfinder == nil:
		return fmt.Errorf("action: pathfinder is nil")
	}
	return nil
}

// ProduceAction is the "build this unit" button. It pays for the unit,
// queues it on every selected producer and, listening to the production,
// places the unit next to its producer when it is done.
type ProduceAction struct {
	deps  Deps
	media string
	cost  component.CostConfig

	producing int
	percent   int
	hovered   bool

	hud hud
}

func New(deps Deps, media string, cost component.CostConfig) (*ProduceAction, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if media == "" {
		return nil, fmt.Errorf("action: empty media")
	}
	return &ProduceAction{deps: deps, media: prefabs.MediaName(media), cost: cost}, nil
}

// Load reads the cost from the prefab of media.
func Load(deps Deps, media string) (*ProduceAction, error) {
	cost, err := prefabs.LoadCost(media)
	if err != nil {
		return nil, fmt.Errorf("action: load %q: %w", media, err)
	}
	return New(deps, media, cost)
}

func (a *ProduceAction) Media() string {
	return a.media
}

func (a *ProduceAction) Cost() component.CostConfig {
	return a.cost
}

// Producing reports whether a production started by this action is under
// way.
func (a *ProduceAction) Producing() bool {
	return a.producing > 0
}

// Percent is the progress shown on the bar.
func (a *ProduceAction) Percent() int {
	return a.percent
}

func (a *ProduceAction) SetHover(hovered bool) {
	a.hovered = hovered
}

func (a *ProduceAction) Hovered() bool {
	return a.hovered
}

func (a *ProduceAction) affordable() bool {
	l := a.deps.Ledger
	if a.cost.RequiresFood() && !l.IsAvailableFood() {
		return false
	}
	return l.IsAvailableWood(a.cost.Wood()) && l.IsAvailableGold(a.cost.Gold())
}

// Activate buys one unit. It does nothing and returns false when the
// player cannot afford it.
func (a *ProduceAction) Activate() (ecs.Entity, bool) {
	if !a.affordable() {
		return 0, false
	}

	w := a.deps.World
	e, err := a.deps.Factory.Create(a.media)
	if err != nil {
		logger.Log.WithField("media", a.media).WithError(err).Error("produce: create entity")
		return 0, false
	}
	p, ok := ecs.Get(w, e, component.ProducibleComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, e)
		logger.Log.WithField("media", a.media).Error("produce: prefab is not producible")
		return 0, false
	}

	a.deps.Ledger.DecreaseWood(a.cost.Wood())
	a.deps.Ledger.DecreaseGold(a.cost.Gold())

	p.Order = uuid.NewString()
	p.AddListener(a)

	queued := 0
	for _, raw := range a.deps.Selection.Entities() {
		prod, ok := ecs.Get(w, ecs.Entity(raw), component.ProducerComponent.Kind())
		if !ok {
			continue
		}
		prod.Enqueue(uint64(e))
		queued++
	}

	fields := logrus.Fields{"media": a.media, "entity": e.String(), "order": p.Order}
	if queued == 0 {
		logger.Log.WithFields(fields).Warn("produce: no producer selected")
	} else {
		logger.Log.WithFields(fields).WithField("producers", queued).Debug("produce: queued")
	}
	return e, true
}

func (a *ProduceAction) NotifyProductionStarted(ev component.ProductionEvent) {
	a.producing++
	a.percent = ev.Percent
	a.cue(ev.Produced, component.CueStarted)
}

func (a *ProduceAction) NotifyProductionProgress(ev component.ProductionEvent) {
	a.percent = ev.Percent
}

func (a *ProduceAction) NotifyProductionEnded(ev component.ProductionEvent) {
	a.place(ev)
	a.percent = 0
	a.cue(ev.Produced, component.CueProduced)
	if a.producing > 0 {
		a.producing--
	}
}

// place puts the produced unit on a free tile next to its producer.
func (a *ProduceAction) place(ev component.ProductionEvent) {
	w := a.deps.World
	fields := logrus.Fields{
		"producer": fmt.Sprint(ev.Producer),
		"entity":   fmt.Sprint(ev.Produced),
		"order":    ev.Order,
	}

	unit, ok := ecs.Get(w, ecs.Entity(ev.Produced), component.PathfindableComponent.Kind())
	if !ok {
		logger.Log.WithFields(fields).Warn("produce: unit has no footprint, not placed")
		return
	}
	// A producer off the map would leave the unit Done but never placed.
	producer, ok := ecs.Get(w, ecs.Entity(ev.Producer), component.PathfindableComponent.Kind())
	if !ok || !producer.Placed {
		panic(fmt.Sprintf("produce: producer %v finished entity %v but is not on the map", ecs.Entity(ev.Producer), ecs.Entity(ev.Produced)))
	}

	tile, free := a.deps.Pathfinder.FindFreeTileAround(unit, producer)
	if !free {
		logger.Log.WithFields(fields).WithField("tile", tile).Warn("produce: no free tile, placing on an occupied one")
	}
	unit.SetLocation(tile)
}

func (a *ProduceAction) cue(e uint64, cue component.SoundCue) {
	if sfx, ok := ecs.Get(a.deps.World, ecs.Entity(e), component.SfxComponent.Kind()); ok {
		sfx.Request(cue)
	}
}
