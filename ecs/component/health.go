package component

type Stats struct {
	Health    int
	HealthMax int
}

// HealthPercent is rounded down, so only a dead entity reports 0.
func (s *Stats) HealthPercent() int {
	if s == nil || s.HealthMax <= 0 || s.Health <= 0 {
		return 0
	}
	pct := s.Health * 100 / s.HealthMax
	if pct == 0 {
		pct = 1
	}
	return pct
}

func (s *Stats) Damage(n int) {
	s.Health -= n
	if s.Health < 0 {
		s.Health = 0
	}
}

var StatsComponent = NewComponent[Stats]()
