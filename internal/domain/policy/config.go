// Package policy provides the distribution rate limiter and
// duplicate-aid guard. Limits are soft: the guard only raises advisory
// alerts, the distribution orchestrator decides whether confirmation is
// needed, and a human can always override. Aid is never hard-blocked.
package policy

import (
	"strings"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
)

// CategoryLimit configures a rolling window and per-item quantity caps
// for one item category. Cap keys are matched as case-insensitive
// substrings of the item name, so a cap keyed "arroz" covers
// "Arroz 1kg" and "Arroz integral".
type CategoryLimit struct {
	WindowDays int
	Caps       map[string]types.Quantity
}

// Config is an immutable category → limit mapping, constructed at
// startup and passed into the guard. Administrative overrides build a
// new Config instead of mutating shared state.
type Config struct {
	categories map[string]CategoryLimit
}

// NewConfig builds a Config from a category map. The input is copied.
func NewConfig(categories map[string]CategoryLimit) Config {
	return Config{categories: copyCategories(categories)}
}

// DefaultConfig returns the production distribution limits.
func DefaultConfig() Config {
	q := func(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }
	return NewConfig(map[string]CategoryLimit{
		"alimentação": {
			WindowDays: 30,
			Caps: map[string]types.Quantity{
				"arroz":  q(10), // kg per month
				"feijão": q(8),
				"óleo":   q(3), // liters per month
				"açúcar": q(5),
				"água":   q(20),
			},
		},
		"vestuário": {
			WindowDays: 90,
			Caps: map[string]types.Quantity{
				"camiseta": q(3), // units per quarter
				"calças":   q(2),
				"sapatos":  q(1),
			},
		},
		"higiene": {
			WindowDays: 60,
			Caps: map[string]types.Quantity{
				"sabão":           q(5),
				"pasta de dentes": q(2),
				"shampoo":         q(2),
			},
		},
		"mobiliário": {
			WindowDays: 180,
			Caps: map[string]types.Quantity{
				"colchão":  q(1), // one per semester
				"cobertor": q(2),
				"lençol":   q(3),
			},
		},
	})
}

// WithLimit returns a new Config with one cap added or replaced.
// The receiver is left untouched.
func (c Config) WithLimit(category, itemSubstring string, cap types.Quantity, windowDays int) Config {
	categories := copyCategories(c.categories)

	key := strings.ToLower(strings.TrimSpace(category))
	limit, ok := categories[key]
	if !ok {
		limit = CategoryLimit{WindowDays: windowDays, Caps: map[string]types.Quantity{}}
	}
	limit.WindowDays = windowDays
	limit.Caps[strings.ToLower(strings.TrimSpace(itemSubstring))] = cap
	categories[key] = limit

	return Config{categories: categories}
}

// Match finds the limit for a declared item category. Matching is a
// case-insensitive substring test in both directions, so a declared
// category "Alimentação básica" still hits the "alimentação" policy.
func (c Config) Match(declaredCategory string) (CategoryLimit, bool) {
	declared := strings.ToLower(strings.TrimSpace(declaredCategory))
	if declared == "" {
		return CategoryLimit{}, false
	}
	if limit, ok := c.categories[declared]; ok {
		return limit, true
	}
	for key, limit := range c.categories {
		if strings.Contains(declared, key) || strings.Contains(key, declared) {
			return limit, true
		}
	}
	return CategoryLimit{}, false
}

// CapFor finds the quantity cap applying to an item name, if any.
func (l CategoryLimit) CapFor(itemName string) (types.Quantity, bool) {
	name := strings.ToLower(itemName)
	for key, cap := range l.Caps {
		if strings.Contains(name, key) {
			return cap, true
		}
	}
	return 0, false
}

func copyCategories(in map[string]CategoryLimit) map[string]CategoryLimit {
	out := make(map[string]CategoryLimit, len(in))
	for key, limit := range in {
		caps := make(map[string]types.Quantity, len(limit.Caps))
		for name, cap := range limit.Caps {
			caps[name] = cap
		}
		out[key] = CategoryLimit{WindowDays: limit.WindowDays, Caps: caps}
	}
	return out
}
