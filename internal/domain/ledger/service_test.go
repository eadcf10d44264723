package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/item"
)

type fakeRepo struct {
	onHand     types.Quantity
	instOnHand types.Quantity
	entry      *Entry
	summaries  []ItemStockSummary

	appended     []*Entry
	summarySince time.Time
}

func (f *fakeRepo) Append(ctx context.Context, entry *Entry) error {
	f.appended = append(f.appended, entry)
	return nil
}

func (f *fakeRepo) LockItem(ctx context.Context, itemID id.ID) error { return nil }

func (f *fakeRepo) OnHand(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	return f.onHand, nil
}

func (f *fakeRepo) OnHandForInstitution(ctx context.Context, itemID, institutionID id.ID) (types.Quantity, error) {
	return f.instOnHand, nil
}

func (f *fakeRepo) SumExitsForBeneficiaryItem(ctx context.Context, nif string, itemID id.ID, since time.Time) (types.Quantity, error) {
	return 0, nil
}

func (f *fakeRepo) CountExitsForBeneficiaryItem(ctx context.Context, nif string, itemID id.ID, since time.Time) (int, error) {
	return 0, nil
}

func (f *fakeRepo) CountExitsForBeneficiary(ctx context.Context, nif string, since time.Time) (int, error) {
	return 0, nil
}

func (f *fakeRepo) ExitsForBeneficiary(ctx context.Context, nif string) ([]ExitRecord, error) {
	return nil, nil
}

func (f *fakeRepo) LeastServed(ctx context.Context, category string, since time.Time, limit int) ([]ServedCount, error) {
	return nil, nil
}

func (f *fakeRepo) ListByInstitution(ctx context.Context, institutionID id.ID, filter MovementFilter) ([]Entry, error) {
	return nil, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, entryID id.ID) (*Entry, error) {
	if f.entry != nil && f.entry.ID == entryID {
		return f.entry, nil
	}
	return nil, apperror.NewNotFound("movement", entryID)
}

func (f *fakeRepo) SummaryByInstitution(ctx context.Context, institutionID id.ID, recentSince time.Time) ([]ItemStockSummary, error) {
	f.summarySince = recentSince
	return f.summaries, nil
}

func (f *fakeRepo) OrphanByInstitution(ctx context.Context, institutionID id.ID) (int64, error) {
	return 0, nil
}

type fakeItems struct {
	item *item.Item
}

func (f *fakeItems) Create(ctx context.Context, it *item.Item) error { return nil }
func (f *fakeItems) Update(ctx context.Context, it *item.Item) error { return nil }

func (f *fakeItems) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	if f.item == nil || f.item.ID != itemID {
		return nil, apperror.NewNotFound("item", itemID)
	}
	return f.item, nil
}

func (f *fakeItems) FindByName(ctx context.Context, name string) (*item.Item, error) { return nil, nil }

func (f *fakeItems) List(ctx context.Context, filter item.ListFilter) ([]item.Item, error) {
	return nil, nil
}

func (f *fakeItems) Categories(ctx context.Context) ([]string, error) { return nil, nil }

func q(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func TestRegisterEntry(t *testing.T) {
	it := item.NewItem("Arroz 1kg", "kg", "alimentação")
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeItems{item: it})
	instID := id.New()

	entry, err := svc.RegisterEntry(context.Background(), it.ID, instID, q(50),
		EntryMetadata{DonationSource: "campanha de inverno"})
	assert.NoError(t, err)
	assert.Equal(t, DirectionEntry, entry.Direction)
	assert.Nil(t, entry.BeneficiaryNIF)
	assert.Equal(t, "campanha de inverno", entry.DonationSource)
	assert.Len(t, repo.appended, 1)

	got, known := entry.Institution.InstitutionID()
	assert.True(t, known)
	assert.Equal(t, instID, got)
}

func TestRegisterEntryRejectsNonPositiveQuantity(t *testing.T) {
	it := item.NewItem("Arroz 1kg", "kg", "alimentação")
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeItems{item: it})

	_, err := svc.RegisterEntry(context.Background(), it.ID, id.New(), q(0), EntryMetadata{})
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Empty(t, repo.appended)
}

func TestRegisterEntryUnknownItem(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeItems{})

	_, err := svc.RegisterEntry(context.Background(), id.New(), id.New(), q(1), EntryMetadata{})
	assert.True(t, apperror.IsNotFound(err))
}

func TestTotalOnHand(t *testing.T) {
	it := item.NewItem("Arroz 1kg", "kg", "alimentação")
	repo := &fakeRepo{onHand: q(30)}
	svc := NewService(repo, &fakeItems{item: it})

	got, err := svc.TotalOnHand(context.Background(), it.ID)
	assert.NoError(t, err)
	assert.Equal(t, q(30), got)

	_, err = svc.TotalOnHand(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestOnHandForInstitutionMayBeNegative(t *testing.T) {
	it := item.NewItem("Arroz 1kg", "kg", "alimentação")
	repo := &fakeRepo{instOnHand: q(-5)}
	svc := NewService(repo, &fakeItems{item: it})

	got, err := svc.OnHandForInstitution(context.Background(), it.ID, id.New())
	assert.NoError(t, err)
	assert.Equal(t, q(-5), got)
	assert.True(t, got.IsNegative(), "institutions draw from a shared pool")
}

func TestStockSummaryDerivesOnHand(t *testing.T) {
	repo := &fakeRepo{summaries: []ItemStockSummary{
		{ItemName: "Arroz 1kg", Entries: q(50), Exits: q(30), RecentMovements: 4},
		{ItemName: "Cobertores", Entries: q(10), Exits: q(12)},
	}}
	svc := NewService(repo, &fakeItems{})

	got, err := svc.StockSummary(context.Background(), id.New())
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, q(20), got[0].OnHand)
	assert.Equal(t, q(-2), got[1].OnHand, "over-distribution from the shared pool shows as negative")

	assert.WithinDuration(t,
		time.Now().UTC().AddDate(0, 0, -recentWindowDays),
		repo.summarySince, 2*time.Second)
}

func TestGetMovementEnforcesOwnership(t *testing.T) {
	owner := id.New()
	entry := NewEntry(id.New(), owner, q(10), EntryMetadata{})
	repo := &fakeRepo{entry: entry}
	svc := NewService(repo, &fakeItems{})

	got, err := svc.GetMovement(context.Background(), entry.ID, owner)
	assert.NoError(t, err)
	assert.Equal(t, entry, got)

	_, err = svc.GetMovement(context.Background(), entry.ID, id.New())
	assert.True(t, apperror.IsNotFound(err), "foreign movements look absent, not forbidden")
}
