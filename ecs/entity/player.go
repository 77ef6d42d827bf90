package entity

import (
	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
)

// NewPlayer creates the ledger singleton.
func NewPlayer(w *ecs.World, name string, wood, gold, foodMax int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		Name:    name,
		Wood:    wood,
		Gold:    gold,
		FoodMax: foodMax,
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// NewSelection creates the selection singleton.
func NewSelection(w *ecs.World) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.SelectionComponent.Kind(), &component.Selection{}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}
