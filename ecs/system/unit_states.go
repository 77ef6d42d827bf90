package system

import (
	"fmt"

	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/fsm"
)

type unitCtx = *component.UnitContext

type unitStateBuilder interface {
	fsm.State[unitCtx]
	AddTransition(target fsm.StateID, guard fsm.Guard[unitCtx])
}

// when lifts a snapshot predicate into a guard.
func when(pred func(s component.UnitSnapshot) bool) fsm.Guard[unitCtx] {
	return func(ctx unitCtx) bool {
		return pred(ctx.Snapshot)
	}
}

func isDead(s component.UnitSnapshot) bool { return s.HealthPercent == 0 }

func isMoving(s component.UnitSnapshot) bool { return s.MoveStarted }

func isStopped(s component.UnitSnapshot) bool { return !s.MoveStarted }

func carriesWood(s component.UnitSnapshot) bool { return s.Carry == component.ResourceWood }

func carriesNothing(s component.UnitSnapshot) bool { return s.Carry == component.ResourceNone }

func atExtractTarget(s component.UnitSnapshot) bool {
	return s.Extract == component.ResourceWood && s.AtResource && !s.MoveStarted
}

// unitState plays the state's animation on Enter.
type unitState struct {
	fsm.Base[unitCtx]
}

func newUnitState(id fsm.StateID) unitState {
	return unitState{Base: fsm.NewBase[unitCtx](id, string(id))}
}

func (s *unitState) Enter(ctx unitCtx) {
	if ctx.ChangeAnimation != nil {
		ctx.ChangeAnimation(s.Animation())
	}
}

type idleState struct{ unitState }

func newIdleState() *idleState {
	s := &idleState{newUnitState(component.StateIdle)}
	s.AddTransition(component.StateDie, when(isDead))
	s.AddTransition(component.StateExtractWood, when(atExtractTarget))
	s.AddTransition(component.StateWalk, when(isMoving))
	return s
}

type walkState struct{ unitState }

func newWalkState() *walkState {
	s := &walkState{newUnitState(component.StateWalk)}
	s.AddTransition(component.StateDie, when(isDead))
	s.AddTransition(component.StateExtractWood, when(atExtractTarget))
	s.AddTransition(component.StateCarryWood, when(func(s component.UnitSnapshot) bool {
		return carriesWood(s) && s.MoveStarted
	}))
	s.AddTransition(component.StateIdle, when(isStopped))
	return s
}

// extractWoodState chops while standing next to a tree. The cut cue is tied
// to the last frame of the swing and fires once per swing.
type extractWoodState struct {
	unitState
	cut      bool
	listener component.ListenerID
	anim     *component.Animation
}

func newExtractWoodState() *extractWoodState {
	s := &extractWoodState{unitState: newUnitState(component.StateExtractWood)}
	s.AddTransition(component.StateCarryWood, when(carriesWood))
	s.AddTransition(component.StateDie, when(isDead))
	s.AddTransition(component.StateIdle, when(func(s component.UnitSnapshot) bool {
		return !s.MoveStarted && !s.GotoResource
	}))
	s.AddTransition(component.StateWalk, when(func(s component.UnitSnapshot) bool {
		return s.MoveStarted && s.Extract == component.ResourceNone && carriesNothing(s)
	}))
	return s
}

func (s *extractWoodState) Enter(ctx unitCtx) {
	s.unitState.Enter(ctx)
	s.cut = false
	if ctx.Animation == nil {
		return
	}
	anim, sfx := ctx.Animation, ctx.Sfx
	s.anim = anim
	s.listener = anim.AddFrameListener(func(frame int) {
		def, ok := anim.Def()
		if !ok {
			return
		}
		switch {
		case frame == def.Last && !s.cut:
			s.cut = true
			sfx.Request(component.CueAttacked)
		case frame == def.First:
			s.cut = false
		}
	})
}

func (s *extractWoodState) Update(ctx unitCtx) {
	w := ctx.Worker
	if w == nil || w.Carry != component.ResourceNone {
		return
	}
	w.ExtractTicks++
	if w.CarryAfter > 0 && w.ExtractTicks >= w.CarryAfter {
		w.Carry = component.ResourceWood
		w.ExtractTicks = 0
	}
}

func (s *extractWoodState) Exit(ctx unitCtx) {
	if s.anim != nil {
		s.anim.RemoveFrameListener(s.listener)
		s.anim = nil
	}
	s.cut = false
}

type carryWoodState struct{ unitState }

func newCarryWoodState() *carryWoodState {
	s := &carryWoodState{newUnitState(component.StateCarryWood)}
	s.AddTransition(component.StateDie, when(isDead))
	s.AddTransition(component.StateWalk, when(func(s component.UnitSnapshot) bool {
		return carriesNothing(s) && s.MoveStarted
	}))
	s.AddTransition(component.StateIdle, when(func(s component.UnitSnapshot) bool {
		return carriesNothing(s) && !s.MoveStarted
	}))
	return s
}

func (s *carryWoodState) Enter(ctx unitCtx) {
	s.unitState.Enter(ctx)
	if ctx.ReturnCargo != nil {
		ctx.ReturnCargo()
	}
}

func (s *carryWoodState) Update(ctx unitCtx) {
	if ctx.Pathfindable == nil || ctx.Pathfindable.MoveStarted {
		return
	}
	if ctx.Deposit != nil && ctx.Deposit() {
		return
	}
	if ctx.ReturnCargo != nil {
		ctx.ReturnCargo()
	}
}

type dieState struct{ unitState }

func newDieState() *dieState {
	s := &dieState{newUnitState(component.StateDie)}
	s.AddTransition(component.StateDead, when(func(s component.UnitSnapshot) bool {
		return s.AnimFinished
	}))
	return s
}

func (s *dieState) Enter(ctx unitCtx) {
	s.unitState.Enter(ctx)
	if ctx.Pathfindable != nil {
		ctx.Pathfindable.Stop()
	}
	ctx.Sfx.Request(component.CueDie)
}

// deadState is terminal.
type deadState struct{ unitState }

func newDeadState() *deadState {
	return &deadState{newUnitState(component.StateDead)}
}

func (s *deadState) Enter(ctx unitCtx) {
	s.unitState.Enter(ctx)
	if ctx.ReleaseTile != nil {
		ctx.ReleaseTile()
	}
}

func buildUnitState(id fsm.StateID) (unitStateBuilder, error) {
	switch id {
	case component.StateIdle:
		return newIdleState(), nil
	case component.StateWalk:
		return newWalkState(), nil
	case component.StateExtractWood:
		return newExtractWoodState(), nil
	case component.StateCarryWood:
		return newCarryWoodState(), nil
	case component.StateDie:
		return newDieState(), nil
	case component.StateDead:
		return newDeadState(), nil
	default:
		return nil, fmt.Errorf("no unit state %q", id)
	}
}

// unitStateFactory builds states on demand and appends the prefab's
// scripted transitions after the built-in ones.
func unitStateFactory(scripted []component.ScriptedTransition) fsm.Factory[unitCtx] {
	return func(id fsm.StateID) (fsm.State[unitCtx], error) {
		s, err := buildUnitState(id)
		if err != nil {
			return nil, err
		}
		for _, tr := range scripted {
			if tr.From == id && tr.Guard != nil {
				s.AddTransition(tr.To, tr.Guard)
			}
		}
		return s, nil
	}
}
