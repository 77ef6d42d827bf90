// Package fsm is a small per-entity finite state machine engine. A state owns
// an ordered list of guarded transitions; the machine evaluates them once per
// tick and swaps the active state on the first guard that holds.
package fsm

import (
	"errors"
	"fmt"
)

// StateID identifies a state within one machine.
type StateID string

var (
	ErrUnknownState = errors.New("fsm: unknown state")
	ErrNoState      = errors.New("fsm: no active state")
)

// Guard decides whether a transition fires. Guards must only read ctx.
type Guard[C any] func(ctx C) bool

// Transition is a guarded edge to Target.
type Transition[C any] struct {
	Target StateID
	Guard  Guard[C]
}

// State is one behavior of an entity.
type State[C any] interface {
	ID() StateID
	Enter(ctx C)
	Update(ctx C)
	Exit(ctx C)
	Transitions() []Transition[C]
}

// Base implements the bookkeeping half of State. Concrete states embed it
// and override the lifecycle hooks they need.
type Base[C any] struct {
	id          StateID
	animation   string
	transitions []Transition[C]
}

func NewBase[C any](id StateID, animation string) Base[C] {
	return Base[C]{id: id, animation: animation}
}

func (b *Base[C]) ID() StateID {
	return b.id
}

// Animation is the animation played while the state is active.
func (b *Base[C]) Animation() string {
	return b.animation
}

// AddTransition appends a transition. Registration order is evaluation
// order; duplicates are kept.
func (b *Base[C]) AddTransition(target StateID, guard Guard[C]) {
	if guard == nil {
		panic(fmt.Sprintf("fsm: state %q: nil guard for transition to %q", b.id, target))
	}
	b.transitions = append(b.transitions, Transition[C]{Target: target, Guard: guard})
}

func (b *Base[C]) Transitions() []Transition[C] {
	return b.transitions
}

func (b *Base[C]) Enter(C)  {}
func (b *Base[C]) Update(C) {}
func (b *Base[C]) Exit(C)   {}

// Next returns the target of the first transition whose guard holds.
func Next[C any](s State[C], ctx C) (StateID, bool) {
	for _, t := range s.Transitions() {
		if t.Guard(ctx) {
			return t.Target, true
		}
	}
	return "", false
}
