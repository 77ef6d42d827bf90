// Package entity builds entities from yaml prefabs.
package entity

import (
	"fmt"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/prefabs"
)

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

type buildContext struct {
	Media string
}

var componentRegistry = map[string]componentBuildFn{
	"identity":     addIdentity,
	"cost":         skipCost,
	"pathfindable": addPathfindable,
	"stats":        addStats,
	"animation":    addAnimation,
	"sfx":          addSfx,
	"worker":       addWorker,
	"behavior":     addBehavior,
	"producible":   addProducible,
	"producer":     addProducer,
}

// behavior reads the animation component, so it is built after it.
var componentBuildOrder = []string{
	"identity",
	"cost",
	"pathfindable",
	"stats",
	"animation",
	"sfx",
	"worker",
	"behavior",
	"producible",
	"producer",
}

// Factory instantiates prefabs into a world. Decoded prefabs are cached
// until Invalidate is called for their media name.
type Factory struct {
	world *ecs.World
	cache map[string]prefabs.EntityBuildSpec
}

func NewFactory(w *ecs.World) *Factory {
	return &Factory{world: w, cache: make(map[string]prefabs.EntityBuildSpec)}
}

// Create builds media. The entity is not placed on the map.
func (f *Factory) Create(media string) (ecs.Entity, error) {
	if f == nil || f.world == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	spec, err := f.spec(media)
	if err != nil {
		return 0, err
	}
	return build(f.world, media, spec)
}

// CreateAt builds media and places it with its top-left corner at tile.
// The entity skips production, so a Producible is marked done.
func (f *Factory) CreateAt(media string, tile component.Tile) (ecs.Entity, error) {
	e, err := f.Create(media)
	if err != nil {
		return 0, err
	}
	if p, ok := ecs.Get(f.world, e, component.ProducibleComponent.Kind()); ok {
		p.SetStatus(component.ProductionDone)
		p.Progress = 100
	}
	p, ok := ecs.Get(f.world, e, component.PathfindableComponent.Kind())
	if !ok {
		ecs.DestroyEntity(f.world, e)
		return 0, fmt.Errorf("build entity: %q has no pathfindable component", media)
	}
	p.SetLocation(tile)
	return e, nil
}

// Invalidate drops the cached prefab so the next Create reads it again.
func (f *Factory) Invalidate(media string) {
	delete(f.cache, prefabs.MediaName(media))
}

func (f *Factory) spec(media string) (prefabs.EntityBuildSpec, error) {
	key := prefabs.MediaName(media)
	if spec, ok := f.cache[key]; ok {
		return spec, nil
	}
	spec, err := prefabs.LoadEntityBuildSpec(key)
	if err != nil {
		return prefabs.EntityBuildSpec{}, fmt.Errorf("build entity: load %q: %w", key, err)
	}
	if len(spec.Components) == 0 {
		return prefabs.EntityBuildSpec{}, fmt.Errorf("build entity: prefab %q does not define components", key)
	}
	f.cache[key] = spec
	return spec, nil
}

func build(w *ecs.World, media string, spec prefabs.EntityBuildSpec) (ecs.Entity, error) {
	media = prefabs.MediaName(media)
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", media, name)
		}
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{Media: media}

	for _, name := range componentBuildOrder {
		raw, ok := spec.Components[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", media, name, err)
		}
	}

	// Every entity remembers its prefab even without an identity block.
	if !ecs.Has(w, e, component.IdentityComponent.Kind()) {
		if err := ecs.Add(w, e, component.IdentityComponent.Kind(), &component.Identity{Media: media, Name: spec.Name}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	return e, nil
}
