package component

// Selection is the ordered set of selected entities (ecs.Entity values).
type Selection struct {
	entities []uint64
}

// Select replaces the selection, dropping duplicates but keeping order.
func (s *Selection) Select(entities ...uint64) {
	s.entities = s.entities[:0]
	for _, e := range entities {
		s.Add(e)
	}
}

func (s *Selection) Add(e uint64) {
	for _, cur := range s.entities {
		if cur == e {
			return
		}
	}
	s.entities = append(s.entities, e)
}

func (s *Selection) Clear() {
	s.entities = nil
}

// Entities returns a copy in selection order.
func (s *Selection) Entities() []uint64 {
	return append([]uint64(nil), s.entities...)
}

var SelectionComponent = NewComponent[Selection]()
