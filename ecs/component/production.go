package component

// ProductionStatus is the poll view of a Producible.
type ProductionStatus uint8

const (
	ProductionPending ProductionStatus = iota
	ProductionProducing
	ProductionDone
)

func (s ProductionStatus) String() string {
	switch s {
	case ProductionPending:
		return "pending"
	case ProductionProducing:
		return "producing"
	case ProductionDone:
		return "done"
	default:
		return "unknown"
	}
}

type ProductionEventKind uint8

const (
	ProductionStarted ProductionEventKind = iota
	ProductionProgress
	ProductionEnded
)

func (k ProductionEventKind) String() string {
	switch k {
	case ProductionStarted:
		return "started"
	case ProductionProgress:
		return "progress"
	case ProductionEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ProductionEvent is delivered to listeners and pushed to the world queue.
// Producer and Produced are entity handles (ecs.Entity is uint64).
type ProductionEvent struct {
	Kind     ProductionEventKind
	Producer uint64
	Produced uint64
	Order    string
	Media    string
	Percent  int
}

// ProducibleListener observes one production. Notifications arrive in
// order Started, Progress..., Ended, all on the simulation tick.
type ProducibleListener interface {
	NotifyProductionStarted(ev ProductionEvent)
	NotifyProductionProgress(ev ProductionEvent)
	NotifyProductionEnded(ev ProductionEvent)
}

// Producible marks an entity as something a Producer can bring into the
// world.
type Producible struct {
	Media string
	Order string
	// Steps is the number of ticks production takes.
	Steps     int
	Progress  int
	ClaimedBy uint64

	status    ProductionStatus
	listeners []ProducibleListener
}

func (p *Producible) Status() ProductionStatus {
	return p.status
}

func (p *Producible) SetStatus(s ProductionStatus) {
	p.status = s
}

func (p *Producible) AddListener(l ProducibleListener) {
	if l == nil {
		return
	}
	p.listeners = append(p.listeners, l)
}

func (p *Producible) RemoveListener(l ProducibleListener) bool {
	for i, cur := range p.listeners {
		if cur == l {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// ClearListeners detaches every listener.
func (p *Producible) ClearListeners() {
	p.listeners = nil
}

// Listeners returns a copy so callbacks may detach themselves.
func (p *Producible) Listeners() []ProducibleListener {
	return append([]ProducibleListener(nil), p.listeners...)
}

var ProducibleComponent = NewComponent[Producible]()

// Producer is the FIFO production queue of a structure.
type Producer struct {
	// Produces lists the media names this structure can build.
	Produces []string
	Queue    []uint64
	// Ticks is the time the head has spent in production.
	Ticks    int
	Progress int
	Started  bool
}

func (p *Producer) Enqueue(e uint64) {
	p.Queue = append(p.Queue, e)
}

func (p *Producer) Head() (uint64, bool) {
	if p == nil || len(p.Queue) == 0 {
		return 0, false
	}
	return p.Queue[0], true
}

// Pop drops the head and resets progress for the next entry.
func (p *Producer) Pop() {
	if len(p.Queue) == 0 {
		return
	}
	p.Queue = p.Queue[1:]
	p.Ticks = 0
	p.Progress = 0
	p.Started = false
}

func (p *Producer) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Queue)
}

// IsProducing reports whether the head is accruing progress.
func (p *Producer) IsProducing() bool {
	return p != nil && p.Started
}

var ProducerComponent = NewComponent[Producer]()
