package system

import (
	"testing"

	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/fsm"
)

func startedMachine(t *testing.T, ctx *component.UnitContext, initial fsm.StateID) *fsm.Machine[*component.UnitContext] {
	t.Helper()
	m := fsm.NewMachine(unitStateFactory(nil))
	if err := m.Start(ctx, initial); err != nil {
		t.Fatalf("start: %v", err)
	}
	return m
}

func TestExtractWoodTransitions(t *testing.T) {
	tests := []struct {
		name string
		snap component.UnitSnapshot
		want fsm.StateID
	}{
		{
			name: "carry wins over die",
			snap: component.UnitSnapshot{HealthPercent: 0, Carry: component.ResourceWood, GotoResource: true},
			want: component.StateCarryWood,
		},
		{
			name: "die",
			snap: component.UnitSnapshot{HealthPercent: 0, GotoResource: true},
			want: component.StateDie,
		},
		{
			name: "idle when stopped without target",
			snap: component.UnitSnapshot{HealthPercent: 50},
			want: component.StateIdle,
		},
		{
			name: "walk when ordered elsewhere",
			snap: component.UnitSnapshot{HealthPercent: 50, MoveStarted: true},
			want: component.StateWalk,
		},
		{
			name: "stay while chopping",
			snap: component.UnitSnapshot{HealthPercent: 50, GotoResource: true, Extract: component.ResourceWood, AtResource: true},
			want: component.StateExtractWood,
		},
		{
			name: "stay while moving with an extract target",
			snap: component.UnitSnapshot{HealthPercent: 50, MoveStarted: true, GotoResource: true, Extract: component.ResourceWood},
			want: component.StateExtractWood,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &component.UnitContext{Snapshot: tt.snap}
			m := startedMachine(t, ctx, component.StateExtractWood)
			changed, err := m.Update(ctx)
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if got := m.CurrentID(); got != tt.want {
				t.Fatalf("state = %s, want %s", got, tt.want)
			}
			if changed != (tt.want != component.StateExtractWood) {
				t.Fatalf("changed = %v", changed)
			}
		})
	}
}

func TestNoMatchIsStable(t *testing.T) {
	ctx := &component.UnitContext{Snapshot: component.UnitSnapshot{HealthPercent: 100}}
	m := startedMachine(t, ctx, component.StateIdle)
	for i := 0; i < 5; i++ {
		changed, err := m.Update(ctx)
		if err != nil || changed {
			t.Fatalf("tick %d: changed=%v err=%v", i, changed, err)
		}
	}
	if m.CurrentID() != component.StateIdle {
		t.Fatalf("state = %s", m.CurrentID())
	}
}

func newExtractAnimation(ticksPerFrame int) *component.Animation {
	return &component.Animation{Defs: map[string]component.AnimationDef{
		"idle":         {Name: "idle", First: 0, Last: 0, TicksPerFrame: 1, Loop: true},
		"extract_wood": {Name: "extract_wood", First: 5, Last: 9, TicksPerFrame: ticksPerFrame, Loop: true},
	}}
}

func countCues(sfx *component.Sfx, cue component.SoundCue) int {
	n := 0
	for _, c := range sfx.Pending {
		if c == cue {
			n++
		}
	}
	return n
}

func TestExtractWoodCueIsEdgeTriggered(t *testing.T) {
	tests := []struct {
		name          string
		ticksPerFrame int
		ticks         int
		want          int
	}{
		{name: "one tick per frame", ticksPerFrame: 1, ticks: 10, want: 2},
		{name: "last frame held three ticks", ticksPerFrame: 3, ticks: 15, want: 1},
		{name: "two swings", ticksPerFrame: 3, ticks: 30, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim := newExtractAnimation(tt.ticksPerFrame)
			sfx := &component.Sfx{}
			ctx := &component.UnitContext{
				Snapshot:        component.UnitSnapshot{HealthPercent: 100, GotoResource: true, Extract: component.ResourceWood, AtResource: true},
				Animation:       anim,
				Sfx:             sfx,
				ChangeAnimation: func(name string) { anim.Play(name) },
			}
			m := startedMachine(t, ctx, component.StateExtractWood)
			if anim.Current != "extract_wood" || anim.ListenerCount() != 1 {
				t.Fatalf("enter: clip=%q listeners=%d", anim.Current, anim.ListenerCount())
			}

			step := func() {
				advance(anim)
				if _, err := m.Update(ctx); err != nil {
					t.Fatal(err)
				}
			}
			for i := 0; i < tt.ticks; i++ {
				step()
			}
			if got := countCues(sfx, component.CueAttacked); got != tt.want {
				t.Fatalf("cues = %d, want %d", got, tt.want)
			}
		})
	}
}

// advance is one AnimationSystem step for a single animator.
func advance(anim *component.Animation) {
	def, _ := anim.Def()
	anim.FrameTimer++
	if anim.FrameTimer >= def.TicksPerFrame {
		anim.FrameTimer = 0
		if anim.Frame < def.Last {
			anim.Frame++
		} else if def.Loop {
			anim.Frame = def.First
		} else {
			anim.State = component.AnimFinished
		}
	}
	anim.NotifyFrame()
}

func TestExtractWoodExitRemovesListener(t *testing.T) {
	anim := newExtractAnimation(1)
	sfx := &component.Sfx{}
	ctx := &component.UnitContext{
		Snapshot:        component.UnitSnapshot{HealthPercent: 100, GotoResource: true, Extract: component.ResourceWood, AtResource: true},
		Animation:       anim,
		Sfx:             sfx,
		ChangeAnimation: func(name string) { anim.Play(name) },
	}
	m := startedMachine(t, ctx, component.StateExtractWood)

	ctx.Snapshot = component.UnitSnapshot{HealthPercent: 100}
	if _, err := m.Update(ctx); err != nil {
		t.Fatal(err)
	}
	if m.CurrentID() != component.StateIdle {
		t.Fatalf("state = %s", m.CurrentID())
	}
	if n := anim.ListenerCount(); n != 0 {
		t.Fatalf("listeners after exit = %d", n)
	}

	// re-entering reuses the cached state and registers exactly once
	ctx.Snapshot = component.UnitSnapshot{HealthPercent: 100, GotoResource: true, Extract: component.ResourceWood, AtResource: true}
	if _, err := m.Update(ctx); err != nil {
		t.Fatal(err)
	}
	if m.CurrentID() != component.StateExtractWood || anim.ListenerCount() != 1 {
		t.Fatalf("state = %s listeners = %d", m.CurrentID(), anim.ListenerCount())
	}
}

func TestExtractWoodFillsLoad(t *testing.T) {
	wk := &component.Worker{Extract: component.ResourceWood, GotoResource: true, CarryAfter: 3}
	ctx := &component.UnitContext{
		Snapshot: component.UnitSnapshot{HealthPercent: 100, GotoResource: true, Extract: component.ResourceWood, AtResource: true},
		Worker:   wk,
	}
	m := startedMachine(t, ctx, component.StateExtractWood)
	for i := 0; i < 3; i++ {
		if _, err := m.Update(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if wk.Carry != component.ResourceWood {
		t.Fatalf("carry = %q", wk.Carry)
	}
}

func TestDieThenDead(t *testing.T) {
	released := 0
	sfx := &component.Sfx{}
	ctx := &component.UnitContext{
		Snapshot:    component.UnitSnapshot{HealthPercent: 0},
		Sfx:         sfx,
		ReleaseTile: func() { released++ },
	}
	m := startedMachine(t, ctx, component.StateIdle)

	if _, err := m.Update(ctx); err != nil {
		t.Fatal(err)
	}
	if m.CurrentID() != component.StateDie || countCues(sfx, component.CueDie) != 1 {
		t.Fatalf("state = %s cues = %v", m.CurrentID(), sfx.Pending)
	}

	if _, err := m.Update(ctx); err != nil {
		t.Fatal(err)
	}
	if m.CurrentID() != component.StateDie {
		t.Fatalf("left die before the animation finished: %s", m.CurrentID())
	}

	ctx.Snapshot.AnimFinished = true
	for i := 0; i < 3; i++ {
		if _, err := m.Update(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if m.CurrentID() != component.StateDead {
		t.Fatalf("state = %s", m.CurrentID())
	}
	if released != 1 {
		t.Fatalf("released = %d, want 1", released)
	}
}

func TestScriptedTransitionsRunAfterBuiltins(t *testing.T) {
	tr, err := component.CompileScriptedTransition(component.StateIdle, component.StateWalk, "health_percent < 50")
	if err != nil {
		t.Fatal(err)
	}
	m := fsm.NewMachine(unitStateFactory([]component.ScriptedTransition{tr}))

	ctx := &component.UnitContext{Snapshot: component.UnitSnapshot{HealthPercent: 30}}
	if err := m.Start(ctx, component.StateIdle); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Update(ctx); err != nil {
		t.Fatal(err)
	}
	if m.CurrentID() != component.StateWalk {
		t.Fatalf("state = %s, want walk", m.CurrentID())
	}

	// death still wins because built-in transitions come first
	m2 := fsm.NewMachine(unitStateFactory([]component.ScriptedTransition{tr}))
	ctx2 := &component.UnitContext{Snapshot: component.UnitSnapshot{HealthPercent: 0}}
	if err := m2.Start(ctx2, component.StateIdle); err != nil {
		t.Fatal(err)
	}
	if _, err := m2.Update(ctx2); err != nil {
		t.Fatal(err)
	}
	if m2.CurrentID() != component.StateDie {
		t.Fatalf("state = %s, want die", m2.CurrentID())
	}
}

func TestUnknownUnitState(t *testing.T) {
	m := fsm.NewMachine(unitStateFactory(nil))
	if err := m.Start(&component.UnitContext{}, "fly"); err == nil {
		t.Fatal("expected error")
	}
}
