package system

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/logger"
	"github.com/milk9111/rts/sound"
)

// AudioSystem plays the cues requested this tick. It runs last so every
// earlier system's requests are heard on the same tick.
type AudioSystem struct {
	Player sound.Player
}

func NewAudioSystem(player sound.Player) *AudioSystem {
	return &AudioSystem{Player: player}
}

func (a *AudioSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.SfxComponent.Kind(), func(e ecs.Entity, sfx *component.Sfx) {
		if len(sfx.Pending) == 0 {
			return
		}
		for _, cue := range sfx.Pending {
			name, ok := sfx.Sounds[cue]
			if !ok || a.Player == nil {
				continue
			}
			if err := a.Player.Play(name); err != nil {
				logger.Log.WithFields(logrus.Fields{
					"entity": e.String(),
					"sound":  name,
				}).WithError(err).Warn("audio: play")
			}
		}
		sfx.Pending = sfx.Pending[:0]
	})
}
