package component

// Player is the resource ledger. Debits assume a prior availability check.
type Player struct {
	Name     string
	Wood     int
	Gold     int
	// FoodUsed is not tracked by production or gathering; nothing raises it
	// yet, so IsAvailableFood only reflects the starting values.
	FoodUsed int
	FoodMax  int
}

func (p *Player) IsAvailableFood() bool {
	return p.FoodUsed < p.FoodMax
}

func (p *Player) IsAvailableWood(n int) bool {
	return p.Wood >= n
}

func (p *Player) IsAvailableGold(n int) bool {
	return p.Gold >= n
}

func (p *Player) DecreaseWood(n int) {
	p.Wood -= n
}

func (p *Player) DecreaseGold(n int) {
	p.Gold -= n
}

func (p *Player) IncreaseWood(n int) {
	p.Wood += n
}

func (p *Player) IncreaseGold(n int) {
	p.Gold += n
}

var PlayerComponent = NewComponent[Player]()
