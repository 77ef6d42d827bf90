package system

import (
	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
)

// AnimationSystem advances clips and tells frame listeners which frame is
// shown this tick.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AnimationComponent.Kind(), func(_ ecs.Entity, anim *component.Animation) {
		def, ok := anim.Def()
		if !ok || anim.State == component.AnimStopped {
			return
		}

		if anim.State == component.AnimPlaying {
			anim.FrameTimer++
			if anim.FrameTimer >= def.TicksPerFrame {
				anim.FrameTimer = 0
				switch {
				case anim.Frame < def.Last:
					anim.Frame++
				case def.Loop:
					anim.Frame = def.First
				default:
					anim.State = component.AnimFinished
				}
			}
		}

		anim.NotifyFrame()
	})
}
