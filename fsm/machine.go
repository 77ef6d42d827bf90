package fsm

import "fmt"

// Factory builds the state for id the first time it is entered.
type Factory[C any] func(id StateID) (State[C], error)

// Machine drives one entity. States are built lazily through the factory
// and cached, so each (entity, state) pair is constructed once.
type Machine[C any] struct {
	factory Factory[C]
	states  map[StateID]State[C]
	current State[C]

	// OnTransition, when set, observes every swap after Enter ran.
	OnTransition func(from, to StateID)
}

func NewMachine[C any](factory Factory[C]) *Machine[C] {
	return &Machine[C]{factory: factory, states: make(map[StateID]State[C])}
}

// Start activates the initial state. It is an error to start twice.
func (m *Machine[C]) Start(ctx C, initial StateID) error {
	if m.current != nil {
		return fmt.Errorf("fsm: already started in %q", m.current.ID())
	}
	s, err := m.resolve(initial)
	if err != nil {
		return err
	}
	m.current = s
	s.Enter(ctx)
	return nil
}

// Started reports whether Start succeeded.
func (m *Machine[C]) Started() bool {
	return m != nil && m.current != nil
}

func (m *Machine[C]) Current() State[C] {
	return m.current
}

func (m *Machine[C]) CurrentID() StateID {
	if m.current == nil {
		return ""
	}
	return m.current.ID()
}

// Update runs one tick: it resolves at most one transition, then updates
// the active state. It panics when the machine was never started.
func (m *Machine[C]) Update(ctx C) (bool, error) {
	if m.current == nil {
		panic(ErrNoState)
	}
	changed := false
	if target, ok := Next(m.current, ctx); ok {
		if err := m.ChangeState(ctx, target); err != nil {
			return false, err
		}
		changed = true
	}
	m.current.Update(ctx)
	return changed, nil
}

// ChangeState exits the active state and enters target. The target is
// resolved before Exit so a failed lookup leaves the machine untouched.
func (m *Machine[C]) ChangeState(ctx C, target StateID) error {
	if m.current == nil {
		return ErrNoState
	}
	next, err := m.resolve(target)
	if err != nil {
		return err
	}
	prev := m.current
	prev.Exit(ctx)
	m.current = next
	next.Enter(ctx)
	if m.OnTransition != nil {
		m.OnTransition(prev.ID(), next.ID())
	}
	return nil
}

func (m *Machine[C]) resolve(id StateID) (State[C], error) {
	if s, ok := m.states[id]; ok {
		return s, nil
	}
	if m.factory == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownState, id)
	}
	s, err := m.factory(id)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownState, id, err)
	}
	if s == nil || s.ID() != id {
		return nil, fmt.Errorf("%w %q: factory returned a different state", ErrUnknownState, id)
	}
	m.states[id] = s
	return s, nil
}
