package component

import "fmt"

// CostConfig is the price of one producible type. It is immutable.
type CostConfig struct {
	wood int
	gold int
	food bool
}

func NewCostConfig(wood, gold int, food bool) (CostConfig, error) {
	if wood < 0 || gold < 0 {
		return CostConfig{}, fmt.Errorf("cost: negative amount wood=%d gold=%d", wood, gold)
	}
	return CostConfig{wood: wood, gold: gold, food: food}, nil
}

func (c CostConfig) Wood() int {
	return c.wood
}

func (c CostConfig) Gold() int {
	return c.gold
}

// RequiresFood reports whether the unit needs a free food slot.
func (c CostConfig) RequiresFood() bool {
	return c.food
}
