package component

// SoundCue names a gameplay moment that has a sound.
type SoundCue string

const (
	CueAttacked SoundCue = "attacked"
	CueDie      SoundCue = "die"
	CueStarted  SoundCue = "started"
	CueProduced SoundCue = "produced"
)

// Sfx maps cues to sound names and buffers cue requests for AudioSystem.
type Sfx struct {
	Sounds  map[SoundCue]string
	Pending []SoundCue
}

func (s *Sfx) Request(cue SoundCue) {
	if s == nil {
		return
	}
	s.Pending = append(s.Pending, cue)
}

var SfxComponent = NewComponent[Sfx]()
