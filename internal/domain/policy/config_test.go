package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
)

func TestConfigMatch(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name       string
		category   string
		wantMatch  bool
		wantWindow int
	}{
		{"exact key", "alimentação", true, 30},
		{"declared contains key", "alimentação básica", true, 30},
		{"key contains declared", "vestuá", true, 90},
		{"case and spacing normalized", "  Higiene  ", true, 60},
		{"unknown category", "ferramentas", false, 0},
		{"empty category", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, ok := cfg.Match(tt.category)
			assert.Equal(t, tt.wantMatch, ok)
			if ok {
				assert.Equal(t, tt.wantWindow, limit.WindowDays)
			}
		})
	}
}

func TestCategoryLimitCapFor(t *testing.T) {
	limit, ok := DefaultConfig().Match("alimentação")
	assert.True(t, ok)

	capQty, found := limit.CapFor("Arroz agulha 1kg")
	assert.True(t, found)
	assert.Equal(t, types.NewQuantityFromFloat64(10), capQty)

	_, found = limit.CapFor("Parafusos")
	assert.False(t, found)
}

func TestConfigWithLimitLeavesOriginalUntouched(t *testing.T) {
	original := DefaultConfig()
	modified := original.WithLimit("alimentação", "farinha", types.NewQuantityFromFloat64(6), 30)

	origLimit, _ := original.Match("alimentação")
	_, found := origLimit.CapFor("Farinha de trigo")
	assert.False(t, found, "original config must not gain the new cap")

	modLimit, _ := modified.Match("alimentação")
	capQty, found := modLimit.CapFor("Farinha de trigo")
	assert.True(t, found)
	assert.Equal(t, types.NewQuantityFromFloat64(6), capQty)
}

func TestConfigWithLimitCreatesCategory(t *testing.T) {
	cfg := NewConfig(nil).WithLimit("Ferramentas", "martelo", types.NewQuantityFromFloat64(1), 120)

	limit, ok := cfg.Match("ferramentas")
	assert.True(t, ok)
	assert.Equal(t, 120, limit.WindowDays)

	capQty, found := limit.CapFor("Martelo de borracha")
	assert.True(t, found)
	assert.Equal(t, types.NewQuantityFromFloat64(1), capQty)
}
