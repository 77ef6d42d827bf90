package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/milk9111/rts/config"
	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/logger"
	"github.com/milk9111/rts/sound"
)

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}

func testSettings() config.Settings {
	return config.Settings{
		TPS:      60,
		Layout:   config.DefaultLayout,
		TileSize: 32,
		Wood:     2000,
		Gold:     2000,
		FoodMax:  5,
	}
}

func TestSessionProducesAndGathers(t *testing.T) {
	sess, err := newSession(testSettings(), sound.LogPlayer{})
	if err != nil {
		t.Fatal(err)
	}
	if sess.action("peasant") == nil || sess.action("footman") == nil {
		t.Fatalf("actions = %d", len(sess.actions))
	}

	if !sess.produce("peasant") || !sess.produce("footman") {
		t.Fatal("produce failed")
	}
	if sess.player.Gold != 2000-400-600 || sess.player.Wood != 2000 {
		t.Fatalf("ledger = %d wood %d gold", sess.player.Wood, sess.player.Gold)
	}

	for i := 0; i < 600; i++ {
		sess.step()
	}
	if sess.produced["peasant"] != 1 || sess.produced["footman"] != 1 {
		t.Fatalf("produced = %v", sess.produced)
	}

	gathering := 0
	ecs.ForEach(sess.world, component.WorkerComponent.Kind(), func(_ ecs.Entity, w *component.Worker) {
		if w.Extract == component.ResourceWood {
			gathering++
		}
	})
	if gathering != 1 {
		t.Fatalf("gathering workers = %d, want the produced peasant", gathering)
	}

	var out bytes.Buffer
	renderSummary(&out, sess)
	for _, want := range []string{"peasant", "footman", "townhall", "barracks"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("summary missing %q:\n%s", want, out.String())
		}
	}
}

func TestSessionUnknownMedia(t *testing.T) {
	sess, err := newSession(testSettings(), sound.LogPlayer{})
	if err != nil {
		t.Fatal(err)
	}
	if sess.produce("dragon") {
		t.Fatal("dragon is not producible")
	}
}

func TestEntityAtPrefersUnits(t *testing.T) {
	sess, err := newSession(testSettings(), sound.LogPlayer{})
	if err != nil {
		t.Fatal(err)
	}
	e, ok := sess.entityAt(component.Tile{X: 6, Y: 3})
	if !ok {
		t.Fatal("no entity at the starting peasant")
	}
	id, _ := ecs.Get(sess.world, e, component.IdentityComponent.Kind())
	if id.Media != "peasant" {
		t.Fatalf("media = %q", id.Media)
	}
	if _, ok := sess.entityAt(component.Tile{X: 0, Y: 0}); ok {
		t.Fatal("expected empty tile")
	}
}
