package system

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/logger"
)

// ProductionSystem advances the head of every producer queue by one tick.
//
// An entity queued on several producers is built once: the first producer
// to start it claims it, and the others drop it silently when it reaches
// their head.
type ProductionSystem struct{}

func NewProductionSystem() *ProductionSystem {
	return &ProductionSystem{}
}

func (ps *ProductionSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.ProducerComponent.Kind(), func(e ecs.Entity, prod *component.Producer) {
		head, p, ok := nextProducible(w, e, prod)
		if !ok {
			return
		}

		prod.Ticks++
		started := !prod.Started
		if started {
			prod.Started = true
			p.ClaimedBy = uint64(e)
			p.SetStatus(component.ProductionProducing)
		}

		pct := prod.Ticks * 100 / p.Steps
		if pct > 100 {
			pct = 100
		}
		if pct < prod.Progress {
			pct = prod.Progress
		}
		prod.Progress = pct
		p.Progress = pct

		ev := component.ProductionEvent{
			Producer: uint64(e),
			Produced: uint64(head),
			Order:    p.Order,
			Media:    p.Media,
			Percent:  pct,
		}

		if started {
			ev.Kind = component.ProductionStarted
			notify(w, p, ev)
		}
		ev.Kind = component.ProductionProgress
		notify(w, p, ev)

		if pct < 100 {
			return
		}
		p.SetStatus(component.ProductionDone)
		ev.Kind = component.ProductionEnded
		notify(w, p, ev)
		p.ClearListeners()
		prod.Pop()
	})
}

// nextProducible drops entries another producer claimed or that are
// already done, and returns the head to work on.
func nextProducible(w *ecs.World, e ecs.Entity, prod *component.Producer) (ecs.Entity, *component.Producible, bool) {
	for {
		raw, ok := prod.Head()
		if !ok {
			return 0, nil, false
		}
		head := ecs.Entity(raw)
		p, ok := ecs.Get(w, head, component.ProducibleComponent.Kind())
		if !ok {
			panic(fmt.Sprintf("production: producer %s: queued entity %s has no producible", e, head))
		}
		claimed := p.ClaimedBy != 0 && p.ClaimedBy != uint64(e)
		if p.Status() == component.ProductionDone || claimed {
			logger.Log.WithFields(logrus.Fields{
				"producer": e.String(),
				"entity":   head.String(),
				"order":    p.Order,
			}).Debug("production: skip entry built elsewhere")
			prod.Pop()
			continue
		}
		if p.Steps < 1 {
			p.Steps = 1
		}
		return head, p, true
	}
}

func notify(w *ecs.World, p *component.Producible, ev component.ProductionEvent) {
	for _, l := range p.Listeners() {
		switch ev.Kind {
		case component.ProductionStarted:
			l.NotifyProductionStarted(ev)
		case component.ProductionProgress:
			l.NotifyProductionProgress(ev)
		case component.ProductionEnded:
			l.NotifyProductionEnded(ev)
		}
	}
	w.Emit(ecs.EventProduction, ev)

	if ev.Kind == component.ProductionProgress {
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"producer": fmt.Sprint(ev.Producer),
		"entity":   fmt.Sprint(ev.Produced),
		"order":    ev.Order,
		"media":    ev.Media,
	}).Debugf("production: %s", ev.Kind)
}
