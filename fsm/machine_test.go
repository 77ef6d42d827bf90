package fsm

import (
	"errors"
	"fmt"
	"testing"
)

type testCtx struct {
	flags map[string]bool
	log   []string
}

func (c *testCtx) on(name string) Guard[*testCtx] {
	return func(ctx *testCtx) bool { return ctx.flags[name] }
}

type recordingState struct {
	Base[*testCtx]
	active bool
}

func (s *recordingState) Enter(ctx *testCtx) {
	if s.active {
		ctx.log = append(ctx.log, "double-enter:"+string(s.ID()))
	}
	s.active = true
	ctx.log = append(ctx.log, "enter:"+string(s.ID()))
}

func (s *recordingState) Update(ctx *testCtx) {
	if !s.active {
		ctx.log = append(ctx.log, "inactive-update:"+string(s.ID()))
	}
	ctx.log = append(ctx.log, "update:"+string(s.ID()))
}

func (s *recordingState) Exit(ctx *testCtx) {
	if !s.active {
		ctx.log = append(ctx.log, "double-exit:"+string(s.ID()))
	}
	s.active = false
	ctx.log = append(ctx.log, "exit:"+string(s.ID()))
}

type builder struct {
	built map[StateID]int
	edges map[StateID][]Transition[*testCtx]
}

func (b *builder) factory(id StateID) (State[*testCtx], error) {
	edges, ok := b.edges[id]
	if !ok {
		return nil, fmt.Errorf("no such state")
	}
	b.built[id]++
	s := &recordingState{Base: NewBase[*testCtx](id, string(id))}
	for _, e := range edges {
		s.AddTransition(e.Target, e.Guard)
	}
	return s, nil
}

func newBuilder(ctx *testCtx) *builder {
	return &builder{
		built: map[StateID]int{},
		edges: map[StateID][]Transition[*testCtx]{
			"a": {
				{Target: "b", Guard: ctx.on("t1")},
				{Target: "c", Guard: ctx.on("t2")},
				{Target: "d", Guard: ctx.on("t3")},
			},
			"b": {{Target: "a", Guard: ctx.on("back")}},
			"c": {{Target: "a", Guard: ctx.on("back")}},
			"d": {{Target: "a", Guard: ctx.on("back")}, {Target: "missing", Guard: ctx.on("broken")}},
		},
	}
}

func TestMachineTransitionPriority(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
		want  StateID
	}{
		{"first_and_third_true_picks_first", []string{"t1", "t3"}, "b"},
		{"second_only", []string{"t2"}, "c"},
		{"second_and_third", []string{"t2", "t3"}, "c"},
		{"third_only", []string{"t3"}, "d"},
		{"none", nil, "a"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := &testCtx{flags: map[string]bool{}}
			m := NewMachine(newBuilder(ctx).factory)
			if err := m.Start(ctx, "a"); err != nil {
				t.Fatalf("start: %v", err)
			}
			for _, f := range tc.flags {
				ctx.flags[f] = true
			}
			changed, err := m.Update(ctx)
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if m.CurrentID() != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, m.CurrentID())
			}
			if changed != (tc.want != "a") {
				t.Fatalf("changed=%v for target %q", changed, tc.want)
			}
		})
	}
}

func TestMachineNoMatchKeepsState(t *testing.T) {
	ctx := &testCtx{flags: map[string]bool{}}
	m := NewMachine(newBuilder(ctx).factory)
	if err := m.Start(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	before := m.Current()
	for i := 0; i < 5; i++ {
		if _, err := m.Update(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if m.Current() != before {
		t.Fatalf("state changed without a matching guard")
	}
}

func TestMachineEnterExitPairing(t *testing.T) {
	ctx := &testCtx{flags: map[string]bool{}}
	b := newBuilder(ctx)
	m := NewMachine(b.factory)
	var observed []string
	m.OnTransition = func(from, to StateID) { observed = append(observed, string(from)+">"+string(to)) }

	if err := m.Start(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	// a>b, b>a, a>c, c>a, a>d, d>a
	script := [][]string{{"t1"}, {"back"}, {"t2"}, {"back"}, {"t3"}, {"back"}, nil}
	for _, flags := range script {
		ctx.flags = map[string]bool{}
		for _, f := range flags {
			ctx.flags[f] = true
		}
		if _, err := m.Update(ctx); err != nil {
			t.Fatal(err)
		}
	}

	enters, exits := 0, 0
	for _, entry := range ctx.log {
		switch {
		case len(entry) > 6 && entry[:6] == "enter:":
			enters++
		case len(entry) > 5 && entry[:5] == "exit:":
			exits++
		case entry[:7] == "double-" || entry[:8] == "inactive":
			t.Fatalf("lifecycle violation: %s", entry)
		}
	}
	n := len(observed)
	if n != 6 {
		t.Fatalf("expected 6 transitions, got %d (%v)", n, observed)
	}
	if enters != n+1 || exits != n {
		t.Fatalf("expected %d enters and %d exits, got %d and %d", n+1, n, enters, exits)
	}
	if b.built["a"] != 1 {
		t.Fatalf("state a should be constructed once, got %d", b.built["a"])
	}
}

func TestMachineUnknownTargetLeavesStateIntact(t *testing.T) {
	ctx := &testCtx{flags: map[string]bool{"t3": true}}
	m := NewMachine(newBuilder(ctx).factory)
	if err := m.Start(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Update(ctx); err != nil {
		t.Fatal(err)
	}
	ctx.flags = map[string]bool{"broken": true}
	ctx.log = nil

	_, err := m.Update(ctx)
	if !errors.Is(err, ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
	if m.CurrentID() != "d" {
		t.Fatalf("expected to stay in d, got %q", m.CurrentID())
	}
	if len(ctx.log) != 0 {
		t.Fatalf("no hook should run on a failed transition, got %v", ctx.log)
	}
}

func TestMachineUpdateWithoutStartPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, ErrNoState) {
			t.Fatalf("expected ErrNoState panic, got %v", r)
		}
	}()
	m := NewMachine[*testCtx](nil)
	_, _ = m.Update(&testCtx{})
}

func TestMachineStartTwiceFails(t *testing.T) {
	ctx := &testCtx{flags: map[string]bool{}}
	m := NewMachine(newBuilder(ctx).factory)
	if err := m.Start(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := m.Start(ctx, "b"); err == nil {
		t.Fatalf("expected error on second start")
	}
	if err := NewMachine(newBuilder(ctx).factory).Start(ctx, "nope"); !errors.Is(err, ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
}

func TestScriptGuard(t *testing.T) {
	type snap struct {
		hp     int
		moving bool
	}
	vars := map[string]any{"hp": 0, "moving": false}
	bind := func(s snap) map[string]any { return map[string]any{"hp": s.hp, "moving": s.moving} }

	tests := []struct {
		name string
		expr string
		in   snap
		want bool
	}{
		{"dead", "hp == 0", snap{hp: 0}, true},
		{"alive", "hp == 0", snap{hp: 40}, false},
		{"compound", "moving && hp > 10", snap{hp: 20, moving: true}, true},
		{"compound_false", "moving && hp > 10", snap{hp: 20}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ScriptGuard(tc.expr, vars, bind)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := g(tc.in); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	if _, err := ScriptGuard("hp ==", vars, bind); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := ScriptGuard("unknown_var > 1", vars, bind); err == nil {
		t.Fatalf("expected unresolved reference error")
	}
}
