package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/rts/ecs/component"
)

// EntityBuildSpec is a prefab: a name plus raw component blocks decoded by
// the entity builder registry.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// DecodeComponentSpec re-decodes a raw component block into T.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type CostComponentSpec struct {
	Wood int  `yaml:"wood"`
	Gold int  `yaml:"gold"`
	Food bool `yaml:"food"`
}

// LoadCost reads the cost block of a producible prefab.
func LoadCost(media string) (component.CostConfig, error) {
	spec, err := LoadEntityBuildSpec(media)
	if err != nil {
		return component.CostConfig{}, err
	}
	raw, ok := spec.Components["cost"]
	if !ok {
		return component.CostConfig{}, fmt.Errorf("prefabs: %s has no cost", media)
	}
	cost, err := DecodeComponentSpec[CostComponentSpec](raw)
	if err != nil {
		return component.CostConfig{}, fmt.Errorf("prefabs: decode cost of %s: %w", media, err)
	}
	return component.NewCostConfig(cost.Wood, cost.Gold, cost.Food)
}

type IdentityComponentSpec struct {
	Name string `yaml:"name"`
}

type ProducibleComponentSpec struct {
	Steps int `yaml:"steps"`
}

type ProducerComponentSpec struct {
	Produces []string `yaml:"produces"`
}

type PathfindableComponentSpec struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	TicksPerTile int `yaml:"ticks_per_tile"`
}

type StatsComponentSpec struct {
	Health int `yaml:"health"`
}

type AnimationDefSpec struct {
	First         int  `yaml:"first"`
	Last          int  `yaml:"last"`
	TicksPerFrame int  `yaml:"ticks_per_frame"`
	Loop          bool `yaml:"loop"`
}

type AnimationComponentSpec struct {
	Initial string                      `yaml:"initial"`
	Defs    map[string]AnimationDefSpec `yaml:"defs"`
}

type SfxComponentSpec map[string]string

type WorkerComponentSpec struct {
	CarryAfter int `yaml:"carry_after"`
}

type ScriptedTransitionSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	When string `yaml:"when"`
}

type BehaviorComponentSpec struct {
	Initial  string                   `yaml:"initial"`
	Scripted []ScriptedTransitionSpec `yaml:"scripted"`
}
