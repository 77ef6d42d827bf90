package fsm

import (
	"fmt"
	"sort"

	"github.com/d5/tengo/v2"
)

const scriptResultVar = "__result"

// ScriptGuard compiles a tengo boolean expression into a Guard. vars lists
// every variable the expression may read with its zero value; bind produces
// the current values for ctx. A runtime error makes the guard false.
func ScriptGuard[C any](expr string, vars map[string]any, bind func(ctx C) map[string]any) (Guard[C], error) {
	if expr == "" {
		return nil, fmt.Errorf("fsm: empty guard expression")
	}
	script := tengo.NewScript([]byte(fmt.Sprintf("%s := (%s)", scriptResultVar, expr)))

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := script.Add(name, vars[name]); err != nil {
			return nil, fmt.Errorf("fsm: guard %q: declare %s: %w", expr, name, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("fsm: guard %q: %w", expr, err)
	}

	return func(ctx C) bool {
		for name, value := range bind(ctx) {
			if err := compiled.Set(name, value); err != nil {
				return false
			}
		}
		if err := compiled.Run(); err != nil {
			return false
		}
		return compiled.Get(scriptResultVar).Bool()
	}, nil
}
