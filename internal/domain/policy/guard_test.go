package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/item"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
)

type fakeLedgerReader struct {
	sum        types.Quantity
	recentSame int
	recentAll  int
	least      []ledger.ServedCount
}

func (f *fakeLedgerReader) SumExitsForBeneficiaryItem(ctx context.Context, nif string, itemID id.ID, since time.Time) (types.Quantity, error) {
	return f.sum, nil
}

func (f *fakeLedgerReader) CountExitsForBeneficiaryItem(ctx context.Context, nif string, itemID id.ID, since time.Time) (int, error) {
	return f.recentSame, nil
}

func (f *fakeLedgerReader) CountExitsForBeneficiary(ctx context.Context, nif string, since time.Time) (int, error) {
	return f.recentAll, nil
}

func (f *fakeLedgerReader) LeastServed(ctx context.Context, category string, since time.Time, limit int) ([]ledger.ServedCount, error) {
	return f.least, nil
}

type fakeItemReader struct {
	item *item.Item
}

func (f *fakeItemReader) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	if f.item == nil {
		return nil, apperror.NewNotFound("item", itemID)
	}
	return f.item, nil
}

type fakeBeneficiaryReader struct {
	ben *beneficiary.Beneficiary
}

func (f *fakeBeneficiaryReader) GetByNIF(ctx context.Context, nif string) (*beneficiary.Beneficiary, error) {
	if f.ben == nil {
		return nil, apperror.NewNotFound("beneficiary", nif)
	}
	return f.ben, nil
}

func q(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func riceItem() *item.Item {
	return &item.Item{ID: id.New(), Name: "Arroz 1kg", Unit: "kg", Category: "alimentação", Active: true}
}

func maria() *beneficiary.Beneficiary {
	return &beneficiary.Beneficiary{NIF: "123456789", Name: "Maria Silva", Zone: "Norte"}
}

func newTestGuard(reader *fakeLedgerReader, it *item.Item, ben *beneficiary.Beneficiary) *Guard {
	return NewGuard(DefaultConfig(), reader, &fakeItemReader{item: it}, &fakeBeneficiaryReader{ben: ben}).
		WithClock(func() time.Time { return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC) })
}

func TestEvaluateCapExceededSuggestsRemainder(t *testing.T) {
	reader := &fakeLedgerReader{sum: q(8)}
	guard := newTestGuard(reader, riceItem(), maria())

	eval, err := guard.Evaluate(context.Background(), "123456789", id.New(), q(5))
	assert.NoError(t, err)
	assert.True(t, eval.CanDistribute, "policy breaches never block by themselves")
	assert.Len(t, eval.Alerts, 1)
	assert.Contains(t, eval.Alerts[0], "exceeding the recommended cap")
	assert.Contains(t, eval.Suggestions[0], "distribute at most 2.0000kg")
}

func TestEvaluateCapAlreadyReachedSuggestsAlternative(t *testing.T) {
	reader := &fakeLedgerReader{sum: q(12)}
	guard := newTestGuard(reader, riceItem(), maria())

	eval, err := guard.Evaluate(context.Background(), "123456789", id.New(), q(1))
	assert.NoError(t, err)
	assert.True(t, eval.CanDistribute)
	assert.Len(t, eval.Alerts, 1)
	assert.Contains(t, eval.Suggestions[0], "consider another alimentação item")
}

func TestEvaluateWithinCapRaisesNothing(t *testing.T) {
	reader := &fakeLedgerReader{sum: q(3)}
	guard := newTestGuard(reader, riceItem(), maria())

	eval, err := guard.Evaluate(context.Background(), "123456789", id.New(), q(2))
	assert.NoError(t, err)
	assert.True(t, eval.CanDistribute)
	assert.Empty(t, eval.Alerts)
	assert.Empty(t, eval.Suggestions)
}

func TestEvaluateUnconfiguredCategoryAllowsByDefault(t *testing.T) {
	it := &item.Item{ID: id.New(), Name: "Martelo", Unit: "unidade", Category: "ferramentas", Active: true}
	reader := &fakeLedgerReader{sum: q(100), recentSame: 3, recentAll: 9}
	guard := newTestGuard(reader, it, maria())

	eval, err := guard.Evaluate(context.Background(), "123456789", id.New(), q(50))
	assert.NoError(t, err)
	assert.True(t, eval.CanDistribute)
	assert.Empty(t, eval.Alerts)
	assert.Empty(t, eval.Suggestions)
}

func TestEvaluateUnknownItemOrBeneficiary(t *testing.T) {
	eval, err := newTestGuard(&fakeLedgerReader{}, nil, maria()).
		Evaluate(context.Background(), "123456789", id.New(), q(1))
	assert.NoError(t, err)
	assert.False(t, eval.CanDistribute)
	assert.Contains(t, eval.Alerts[0], "not found")

	eval, err = newTestGuard(&fakeLedgerReader{}, riceItem(), nil).
		Evaluate(context.Background(), "999999999", id.New(), q(1))
	assert.NoError(t, err)
	assert.False(t, eval.CanDistribute)
}

func TestEvaluateRecentSameItemAlert(t *testing.T) {
	reader := &fakeLedgerReader{recentSame: 1}
	guard := newTestGuard(reader, riceItem(), maria())

	eval, err := guard.Evaluate(context.Background(), "123456789", id.New(), q(1))
	assert.NoError(t, err)
	assert.True(t, eval.CanDistribute)
	assert.Len(t, eval.Alerts, 1)
	assert.Contains(t, eval.Alerts[0], "within the last 7 days")
}

func TestEvaluateHighFrequencyAlert(t *testing.T) {
	reader := &fakeLedgerReader{recentAll: 5}
	guard := newTestGuard(reader, riceItem(), maria())

	eval, err := guard.Evaluate(context.Background(), "123456789", id.New(), q(1))
	assert.NoError(t, err)
	assert.Len(t, eval.Alerts, 1)
	assert.Contains(t, eval.Alerts[0], "received 5 distributions in the last 7 days")
}

func TestEvaluateLeastServedSuggestion(t *testing.T) {
	reader := &fakeLedgerReader{least: []ledger.ServedCount{
		{NIF: "111", Name: "Ana", Count: 0},
		{NIF: "222", Name: "Bruno", Count: 1},
	}}
	guard := newTestGuard(reader, riceItem(), maria())

	eval, err := guard.Evaluate(context.Background(), "123456789", id.New(), q(1))
	assert.NoError(t, err)
	assert.Len(t, eval.Suggestions, 1)
	assert.Contains(t, eval.Suggestions[0], "Ana, Bruno")
}

func TestEvaluateIsRepeatable(t *testing.T) {
	reader := &fakeLedgerReader{sum: q(8), recentSame: 1, recentAll: 2}
	guard := newTestGuard(reader, riceItem(), maria())
	itemID := id.New()

	first, err := guard.Evaluate(context.Background(), "123456789", itemID, q(5))
	assert.NoError(t, err)
	second, err := guard.Evaluate(context.Background(), "123456789", itemID, q(5))
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
