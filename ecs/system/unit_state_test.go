package system

import (
	"testing"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/ecs/entity"
	"github.com/milk9111/rts/fsm"
	"github.com/milk9111/rts/tilemap"
)

func newUnitWorld(t *testing.T) (*ecs.World, *tilemap.Map, *ecs.Scheduler, *entity.Factory) {
	t.Helper()
	w := ecs.NewWorld()
	m := tilemap.New(16, 16)
	sched := ecs.NewScheduler(
		NewMovementSystem(m),
		NewAnimationSystem(),
		NewUnitStateSystem(m),
		NewProductionSystem(),
	)
	return w, m, sched, entity.NewFactory(w)
}

func stateOf(w *ecs.World, e ecs.Entity) string {
	b, ok := ecs.Get(w, e, component.UnitBehaviorComponent.Kind())
	if !ok {
		return ""
	}
	return string(b.State())
}

func TestUnitStateSystemSkipsUnplaced(t *testing.T) {
	w, _, sched, f := newUnitWorld(t)
	e, err := f.Create("peasant")
	if err != nil {
		t.Fatal(err)
	}
	sched.Update(w)
	if got := stateOf(w, e); got != "" {
		t.Fatalf("unplaced unit started in %q", got)
	}

	pf, _ := ecs.Get(w, e, component.PathfindableComponent.Kind())
	pf.SetLocation(component.Tile{X: 1, Y: 1})
	sched.Update(w)
	if got := stateOf(w, e); got != "" {
		t.Fatalf("unit with pending production started in %q", got)
	}

	p, _ := ecs.Get(w, e, component.ProducibleComponent.Kind())
	p.SetStatus(component.ProductionDone)
	sched.Update(w)
	if got := stateOf(w, e); got != string(component.StateIdle) {
		t.Fatalf("state = %q, want idle", got)
	}
}

func TestUnitStateSystemWalkAndDie(t *testing.T) {
	w, _, sched, f := newUnitWorld(t)
	e, err := f.CreateAt("peasant", component.Tile{X: 2, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	sched.Update(w)

	if !OrderMove(w, e, component.Tile{X: 5, Y: 2}) {
		t.Fatal("move order rejected")
	}
	sched.Update(w)
	if got := stateOf(w, e); got != string(component.StateWalk) {
		t.Fatalf("state = %q, want walk", got)
	}

	pf, _ := ecs.Get(w, e, component.PathfindableComponent.Kind())
	for i := 0; i < 100 && pf.MoveStarted; i++ {
		sched.Update(w)
	}
	if pf.Tile != (component.Tile{X: 5, Y: 2}) {
		t.Fatalf("tile = %+v", pf.Tile)
	}
	sched.Update(w)
	if got := stateOf(w, e); got != string(component.StateIdle) {
		t.Fatalf("state = %q, want idle", got)
	}

	stats, _ := ecs.Get(w, e, component.StatsComponent.Kind())
	stats.Damage(stats.Health)
	sched.Update(w)
	if got := stateOf(w, e); got != string(component.StateDie) {
		t.Fatalf("state = %q, want die", got)
	}
	for i := 0; i < 200 && stateOf(w, e) != string(component.StateDead); i++ {
		sched.Update(w)
	}
	if got := stateOf(w, e); got != string(component.StateDead) {
		t.Fatalf("state = %q, want dead", got)
	}
	if pf.Placed {
		t.Fatal("dead unit still occupies its tile")
	}

	var changes []component.StateChangeEvent
	for _, ev := range w.Events().Drain() {
		if ev.Type == ecs.EventState {
			changes = append(changes, ev.Data.(component.StateChangeEvent))
		}
	}
	want := []component.StateChangeEvent{
		{Entity: uint64(e), From: component.StateIdle, To: component.StateWalk},
		{Entity: uint64(e), From: component.StateWalk, To: component.StateIdle},
		{Entity: uint64(e), From: component.StateIdle, To: component.StateDie},
		{Entity: uint64(e), From: component.StateDie, To: component.StateDead},
	}
	if len(changes) != len(want) {
		t.Fatalf("changes = %+v", changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Fatalf("change %d = %+v, want %+v", i, changes[i], want[i])
		}
	}
}

func TestUnitStateSystemGatherLoop(t *testing.T) {
	w, m, sched, f := newUnitWorld(t)
	tree := component.Tile{X: 10, Y: 2}
	m.SetBlocked(tree, true)
	m.SetResource(tree, component.ResourceWood)

	if _, err := entity.NewPlayer(w, "p", 0, 0, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := f.CreateAt("townhall", component.Tile{X: 1, Y: 1}); err != nil {
		t.Fatal(err)
	}
	e, err := f.CreateAt("peasant", component.Tile{X: 5, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	sched.Update(w)
	if !OrderGather(w, m, e, tree) {
		t.Fatal("gather order rejected")
	}

	seen := map[string]bool{}
	pe, _ := ecs.First(w, component.PlayerComponent.Kind())
	player, _ := ecs.Get(w, pe, component.PlayerComponent.Kind())
	for i := 0; i < 2000 && player.Wood == 0; i++ {
		sched.Update(w)
		seen[stateOf(w, e)] = true
	}
	if player.Wood != loadPerTrip {
		t.Fatalf("wood = %d, want %d", player.Wood, loadPerTrip)
	}
	for _, s := range []fsm.StateID{component.StateWalk, component.StateExtractWood, component.StateCarryWood} {
		if !seen[string(s)] {
			t.Fatalf("never entered %s, saw %v", s, seen)
		}
	}
}

func TestUnitStateSystemPanicsOnUnknownInitial(t *testing.T) {
	w, _, sched, f := newUnitWorld(t)
	e, err := f.CreateAt("peasant", component.Tile{X: 2, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := ecs.Get(w, e, component.UnitBehaviorComponent.Kind())
	b.Initial = "fly"

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	sched.Update(w)
}
