package component

// AnimationDef describes one clip as an inclusive frame range.
type AnimationDef struct {
	Name          string
	First         int
	Last          int
	TicksPerFrame int
	Loop          bool
}

// AnimState is the playback state of the current clip.
type AnimState uint8

const (
	AnimStopped AnimState = iota
	AnimPlaying
	AnimFinished
)

// FrameListener is called once per tick with the frame being displayed.
type FrameListener func(frame int)

type ListenerID uint32

type frameListener struct {
	id ListenerID
	fn FrameListener
}

// Animation is the animator of an entity. Frame listeners let states tie
// side effects to frames without owning the playback.
type Animation struct {
	Defs       map[string]AnimationDef
	Current    string
	Frame      int
	FrameTimer int
	State      AnimState

	listeners    []frameListener
	nextListener ListenerID
}

// Play starts clip name from its first frame. Unknown names are ignored.
func (a *Animation) Play(name string) bool {
	if a == nil {
		return false
	}
	def, ok := a.Defs[name]
	if !ok {
		return false
	}
	a.Current = name
	a.Frame = def.First
	a.FrameTimer = 0
	a.State = AnimPlaying
	return true
}

func (a *Animation) Def() (AnimationDef, bool) {
	if a == nil {
		return AnimationDef{}, false
	}
	def, ok := a.Defs[a.Current]
	return def, ok
}

// Finished reports whether a non-looping clip reached its last frame.
func (a *Animation) Finished() bool {
	return a != nil && a.State == AnimFinished
}

func (a *Animation) AddFrameListener(fn FrameListener) ListenerID {
	a.nextListener++
	a.listeners = append(a.listeners, frameListener{id: a.nextListener, fn: fn})
	return a.nextListener
}

func (a *Animation) RemoveFrameListener(id ListenerID) bool {
	for i, l := range a.listeners {
		if l.id == id {
			a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (a *Animation) ListenerCount() int {
	if a == nil {
		return 0
	}
	return len(a.listeners)
}

// NotifyFrame delivers the current frame to every listener.
func (a *Animation) NotifyFrame() {
	if a == nil {
		return
	}
	for _, l := range append([]frameListener(nil), a.listeners...) {
		l.fn(a.Frame)
	}
}

var AnimationComponent = NewComponent[Animation]()
