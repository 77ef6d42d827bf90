package component

import (
	"errors"
	"fmt"

	"github.com/milk9111/rts/fsm"
)

const (
	StateIdle        fsm.StateID = "idle"
	StateWalk        fsm.StateID = "walk"
	StateExtractWood fsm.StateID = "extract_wood"
	StateCarryWood   fsm.StateID = "carry_wood"
	StateDie         fsm.StateID = "die"
	StateDead        fsm.StateID = "dead"
)

// ErrBadScriptedTransition is returned for prefab transitions that name an
// unknown state or leave die or dead.
var ErrBadScriptedTransition = errors.New("bad scripted transition")

// IsUnitState reports whether id is one of the built-in unit states.
func IsUnitState(id fsm.StateID) bool {
	switch id {
	case StateIdle, StateWalk, StateExtractWood, StateCarryWood, StateDie, StateDead:
		return true
	}
	return false
}

// UnitSnapshot is the read-only view transition guards evaluate. It is
// rebuilt before every tick's transition check.
type UnitSnapshot struct {
	Entity        uint64
	HealthPercent int
	MoveStarted   bool
	GotoResource  bool
	AtResource    bool
	Carry         ResourceKind
	Extract       ResourceKind
	Frame         int
	AnimFinished  bool
}

// UnitContext is handed to unit states. Guards read Snapshot only; the
// lifecycle hooks may use the feature pointers and callbacks.
type UnitContext struct {
	Snapshot     UnitSnapshot
	Animation    *Animation
	Sfx          *Sfx
	Pathfindable *Pathfindable
	Worker       *Worker
	Stats        *Stats

	ChangeAnimation func(name string)
	ReleaseTile     func()
	// ReturnCargo orders a walk to the nearest drop-off, false when there
	// is none.
	ReturnCargo func() bool
	// Deposit unloads the carried resource when standing at a drop-off.
	Deposit func() bool
}

// StateChangeEvent is pushed to the world queue on every swap.
type StateChangeEvent struct {
	Entity uint64
	From   fsm.StateID
	To     fsm.StateID
}

// ScriptedTransition is an extra prefab-authored edge guarded by a tengo
// expression over the snapshot.
type ScriptedTransition struct {
	From  fsm.StateID
	To    fsm.StateID
	When  string
	Guard fsm.Guard[*UnitContext]
}

// Vars exposes the snapshot to tengo guard expressions.
func (s UnitSnapshot) Vars() map[string]any {
	return map[string]any{
		"health_percent": s.HealthPercent,
		"move_started":   s.MoveStarted,
		"goto_resource":  s.GotoResource,
		"at_resource":    s.AtResource,
		"carry":          string(s.Carry),
		"extract":        string(s.Extract),
		"frame":          s.Frame,
		"anim_finished":  s.AnimFinished,
	}
}

// CompileScriptedTransition compiles when into a guard over the snapshot.
// Die only leads to dead and dead is terminal, so neither may be a source.
func CompileScriptedTransition(from, to fsm.StateID, when string) (ScriptedTransition, error) {
	switch {
	case !IsUnitState(from):
		return ScriptedTransition{}, fmt.Errorf("%w: unknown state %q", ErrBadScriptedTransition, from)
	case !IsUnitState(to):
		return ScriptedTransition{}, fmt.Errorf("%w: unknown state %q", ErrBadScriptedTransition, to)
	case from == StateDie || from == StateDead:
		return ScriptedTransition{}, fmt.Errorf("%w: %s cannot be left by script", ErrBadScriptedTransition, from)
	}
	guard, err := fsm.ScriptGuard(when, UnitSnapshot{}.Vars(), func(ctx *UnitContext) map[string]any {
		return ctx.Snapshot.Vars()
	})
	if err != nil {
		return ScriptedTransition{}, fmt.Errorf("scripted transition %s -> %s: %w", from, to, err)
	}
	return ScriptedTransition{From: from, To: to, When: when, Guard: guard}, nil
}

// UnitBehavior owns an entity's state machine. The machine is created by
// UnitStateSystem the first tick the unit is in the world.
type UnitBehavior struct {
	Initial  fsm.StateID
	Scripted []ScriptedTransition
	Machine  *fsm.Machine[*UnitContext]
}

// State returns the active state id, empty before the machine starts.
func (b *UnitBehavior) State() fsm.StateID {
	if b == nil || b.Machine == nil {
		return ""
	}
	return b.Machine.CurrentID()
}

var UnitBehaviorComponent = NewComponent[UnitBehavior]()
