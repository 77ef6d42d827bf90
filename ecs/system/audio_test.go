package system

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/sound/mocks"
)

func TestAudioSystemPlaysPendingCues(t *testing.T) {
	ctrl := gomock.NewController(t)
	player := mocks.NewMockPlayer(ctrl)

	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	sfx := &component.Sfx{Sounds: map[component.SoundCue]string{
		component.CueAttacked: "axe",
		component.CueDie:      "peasant_die",
	}}
	if err := ecs.Add(w, e, component.SfxComponent.Kind(), sfx); err != nil {
		t.Fatal(err)
	}
	sfx.Request(component.CueAttacked)
	sfx.Request(component.CueProduced) // no sound mapped
	sfx.Request(component.CueDie)

	gomock.InOrder(
		player.EXPECT().Play("axe").Return(nil),
		player.EXPECT().Play("peasant_die").Return(errors.New("device busy")),
	)

	sys := NewAudioSystem(player)
	sys.Update(w)
	if len(sfx.Pending) != 0 {
		t.Fatalf("pending = %v", sfx.Pending)
	}

	// nothing pending, nothing played
	sys.Update(w)
}
