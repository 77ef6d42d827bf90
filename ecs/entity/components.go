package entity

import (
	"fmt"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/fsm"
	"github.com/milk9111/rts/prefabs"
)

type identitySpec = prefabs.IdentityComponentSpec

func addIdentity(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[identitySpec](raw)
	if err != nil {
		return fmt.Errorf("decode identity spec: %w", err)
	}
	return ecs.Add(w, e, component.IdentityComponent.Kind(), &component.Identity{Media: ctx.Media, Name: spec.Name})
}

// Cost is read by the produce action through prefabs.LoadCost; it only has
// to decode here.
func skipCost(_ *ecs.World, _ ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CostComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode cost spec: %w", err)
	}
	_, err = component.NewCostConfig(spec.Wood, spec.Gold, spec.Food)
	return err
}

type pathfindableSpec = prefabs.PathfindableComponentSpec

func addPathfindable(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[pathfindableSpec](raw)
	if err != nil {
		return fmt.Errorf("decode pathfindable spec: %w", err)
	}
	if spec.Width < 0 || spec.Height < 0 || spec.TicksPerTile < 0 {
		return fmt.Errorf("pathfindable: negative size or speed")
	}
	return ecs.Add(w, e, component.PathfindableComponent.Kind(), &component.Pathfindable{
		Width:        spec.Width,
		Height:       spec.Height,
		TicksPerTile: spec.TicksPerTile,
	})
}

type statsSpec = prefabs.StatsComponentSpec

func addStats(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[statsSpec](raw)
	if err != nil {
		return fmt.Errorf("decode stats spec: %w", err)
	}
	if spec.Health <= 0 {
		return fmt.Errorf("stats: health must be positive, got %d", spec.Health)
	}
	return ecs.Add(w, e, component.StatsComponent.Kind(), &component.Stats{Health: spec.Health, HealthMax: spec.Health})
}

type animationSpec = prefabs.AnimationComponentSpec

func addAnimation(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[animationSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animation spec: %w", err)
	}
	if len(spec.Defs) == 0 {
		return fmt.Errorf("animation: no defs")
	}

	anim := &component.Animation{Defs: make(map[string]component.AnimationDef, len(spec.Defs))}
	for name, def := range spec.Defs {
		if def.Last < def.First {
			return fmt.Errorf("animation %q: last frame %d before first %d", name, def.Last, def.First)
		}
		tpf := def.TicksPerFrame
		if tpf < 1 {
			tpf = 1
		}
		anim.Defs[name] = component.AnimationDef{
			Name:          name,
			First:         def.First,
			Last:          def.Last,
			TicksPerFrame: tpf,
			Loop:          def.Loop,
		}
	}
	if spec.Initial != "" && !anim.Play(spec.Initial) {
		return fmt.Errorf("animation: unknown initial clip %q", spec.Initial)
	}
	return ecs.Add(w, e, component.AnimationComponent.Kind(), anim)
}

func addSfx(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SfxComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sfx spec: %w", err)
	}
	sfx := &component.Sfx{Sounds: make(map[component.SoundCue]string, len(spec))}
	for cue, sound := range spec {
		sfx.Sounds[component.SoundCue(cue)] = sound
	}
	return ecs.Add(w, e, component.SfxComponent.Kind(), sfx)
}

type workerSpec = prefabs.WorkerComponentSpec

func addWorker(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[workerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode worker spec: %w", err)
	}
	return ecs.Add(w, e, component.WorkerComponent.Kind(), &component.Worker{CarryAfter: spec.CarryAfter})
}

type behaviorSpec = prefabs.BehaviorComponentSpec

func addBehavior(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[behaviorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode behavior spec: %w", err)
	}
	initial := fsm.StateID(spec.Initial)
	if initial == "" {
		initial = component.StateIdle
	}
	if !component.IsUnitState(initial) {
		return fmt.Errorf("behavior: unknown initial state %q", initial)
	}

	behavior := &component.UnitBehavior{Initial: initial}
	for i, st := range spec.Scripted {
		if st.From == "" || st.To == "" {
			return fmt.Errorf("behavior: scripted transition %d needs from and to", i)
		}
		tr, err := component.CompileScriptedTransition(fsm.StateID(st.From), fsm.StateID(st.To), st.When)
		if err != nil {
			return fmt.Errorf("behavior: %w", err)
		}
		behavior.Scripted = append(behavior.Scripted, tr)
	}
	return ecs.Add(w, e, component.UnitBehaviorComponent.Kind(), behavior)
}

type producibleSpec = prefabs.ProducibleComponentSpec

func addProducible(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[producibleSpec](raw)
	if err != nil {
		return fmt.Errorf("decode producible spec: %w", err)
	}
	steps := spec.Steps
	if steps < 1 {
		steps = 1
	}
	p := &component.Producible{Media: ctx.Media, Steps: steps}
	p.SetStatus(component.ProductionPending)
	return ecs.Add(w, e, component.ProducibleComponent.Kind(), p)
}

type producerSpec = prefabs.ProducerComponentSpec

func addProducer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[producerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode producer spec: %w", err)
	}
	return ecs.Add(w, e, component.ProducerComponent.Kind(), &component.Producer{
		Produces: append([]string(nil), spec.Produces...),
	})
}
