package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
)

type fakeReportRepo struct {
	total  int64
	served int64
	byZone []ZoneCount
	top    []ServedBeneficiary
	least  []ServedBeneficiary

	movements int64
	aided     int64
	items     []ItemMovementTotal
}

func (f *fakeReportRepo) CountBeneficiaries(ctx context.Context) (int64, error) {
	return f.total, nil
}

func (f *fakeReportRepo) CountServedSince(ctx context.Context, since time.Time) (int64, error) {
	return f.served, nil
}

func (f *fakeReportRepo) ExitsByZone(ctx context.Context, since time.Time) ([]ZoneCount, error) {
	return f.byZone, nil
}

func (f *fakeReportRepo) TopServed(ctx context.Context, since time.Time, limit int) ([]ServedBeneficiary, error) {
	return f.top, nil
}

func (f *fakeReportRepo) LeastServed(ctx context.Context, since time.Time, limit int) ([]ServedBeneficiary, error) {
	return f.least, nil
}

func (f *fakeReportRepo) MonthlyTotals(ctx context.Context, institutionID id.ID, from, to time.Time) (int64, int64, []ItemMovementTotal, error) {
	return f.movements, f.aided, f.items, nil
}

type fakeArchive struct {
	blobs map[string][]byte
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{blobs: map[string][]byte{}}
}

func archiveKey(institutionID id.ID, year, month int) string {
	return fmt.Sprintf("%s/%04d-%02d", institutionID, year, month)
}

func (f *fakeArchive) Put(ctx context.Context, institutionID id.ID, year, month int, compressed []byte) error {
	f.blobs[archiveKey(institutionID, year, month)] = compressed
	return nil
}

func (f *fakeArchive) Get(ctx context.Context, institutionID id.ID, year, month int) ([]byte, error) {
	blob, ok := f.blobs[archiveKey(institutionID, year, month)]
	if !ok {
		return nil, apperror.NewNotFound("monthly report", fmt.Sprintf("%04d-%02d", year, month))
	}
	return blob, nil
}

func (f *fakeArchive) List(ctx context.Context, institutionID id.ID) ([]ArchiveEntry, error) {
	return nil, nil
}

type fakeInstitutions struct {
	inst *institution.Institution
}

func (f *fakeInstitutions) GetByID(ctx context.Context, institutionID id.ID) (*institution.Institution, error) {
	if f.inst == nil || f.inst.ID != institutionID {
		return nil, apperror.NewNotFound("institution", institutionID)
	}
	return f.inst, nil
}

var reportNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeReportRepo, archive *fakeArchive, inst *institution.Institution) *Service {
	return NewService(repo, archive, &fakeInstitutions{inst: inst}).
		WithClock(func() time.Time { return reportNow })
}

func TestEquityWithNoBeneficiaries(t *testing.T) {
	svc := newTestService(&fakeReportRepo{}, newFakeArchive(), nil)

	report, err := svc.Equity(context.Background(), 0)
	assert.NoError(t, err)
	assert.Equal(t, DefaultEquityWindowDays, report.WindowDays)
	assert.True(t, report.CoveragePercent.IsZero(), "empty registry must not divide by zero")
}

func TestEquityCoverage(t *testing.T) {
	repo := &fakeReportRepo{
		total:  8,
		served: 2,
		byZone: []ZoneCount{{Zone: "Norte", Count: 5}},
		top:    []ServedBeneficiary{{NIF: "111", Name: "Ana", Count: 4}},
		least:  []ServedBeneficiary{{NIF: "222", Name: "Bruno", Count: 0}},
	}
	svc := newTestService(repo, newFakeArchive(), nil)

	report, err := svc.Equity(context.Background(), 14)
	assert.NoError(t, err)
	assert.Equal(t, 14, report.WindowDays)
	assert.Equal(t, reportNow, report.To)
	assert.Equal(t, reportNow.AddDate(0, 0, -14), report.From)
	assert.True(t, report.CoveragePercent.Equal(decimal.NewFromInt(25)),
		"got %s", report.CoveragePercent)
	assert.Len(t, report.ByZone, 1)
	assert.Equal(t, "Ana", report.TopServed[0].Name)
	assert.Equal(t, "Bruno", report.LeastServed[0].Name)
}

func TestMonthlyReportRoundTrip(t *testing.T) {
	inst := &institution.Institution{ID: id.New(), Name: "Cruz Azul", Username: "cruzazul"}
	repo := &fakeReportRepo{
		movements: 12,
		aided:     7,
		items: []ItemMovementTotal{
			{ItemID: id.New().String(), ItemName: "Arroz 1kg", ItemUnit: "kg",
				Entries: types.NewQuantityFromFloat64(100), Exits: types.NewQuantityFromFloat64(40)},
		},
	}
	archive := newFakeArchive()
	svc := newTestService(repo, archive, inst)

	generated, err := svc.GenerateMonthly(context.Background(), inst.ID, 2026, 7)
	assert.NoError(t, err)
	assert.Equal(t, inst.Name, generated.InstitutionName)
	assert.Equal(t, int64(12), generated.MovementCount)

	blob := archive.blobs[archiveKey(inst.ID, 2026, 7)]
	assert.NotEmpty(t, blob)
	assert.Equal(t, []byte{0x1f, 0x8b}, blob[:2], "archive must hold a gzip stream")

	fetched, err := svc.GetMonthly(context.Background(), inst.ID, 2026, 7)
	assert.NoError(t, err)
	assert.Equal(t, generated.InstitutionID, fetched.InstitutionID)
	assert.Equal(t, generated.BeneficiariesAided, fetched.BeneficiariesAided)
	assert.Equal(t, generated.Items, fetched.Items)
}

func TestMonthlyReportOverwritesSameMonth(t *testing.T) {
	inst := &institution.Institution{ID: id.New(), Name: "Cruz Azul", Username: "cruzazul"}
	repo := &fakeReportRepo{movements: 1}
	archive := newFakeArchive()
	svc := newTestService(repo, archive, inst)

	_, err := svc.GenerateMonthly(context.Background(), inst.ID, 2026, 7)
	assert.NoError(t, err)

	repo.movements = 3
	_, err = svc.GenerateMonthly(context.Background(), inst.ID, 2026, 7)
	assert.NoError(t, err)

	assert.Len(t, archive.blobs, 1, "regeneration replaces the stored month")
	fetched, err := svc.GetMonthly(context.Background(), inst.ID, 2026, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), fetched.MovementCount)
}

func TestGetMonthlyMissing(t *testing.T) {
	svc := newTestService(&fakeReportRepo{}, newFakeArchive(), nil)

	_, err := svc.GetMonthly(context.Background(), id.New(), 2026, 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGenerateMonthlyUnknownInstitution(t *testing.T) {
	svc := newTestService(&fakeReportRepo{}, newFakeArchive(), nil)

	_, err := svc.GenerateMonthly(context.Background(), id.New(), 2026, 1)
	assert.True(t, apperror.IsNotFound(err))
}
