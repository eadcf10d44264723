package lookup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
)

type fakeBeneficiaries struct {
	ben *beneficiary.Beneficiary
}

func (f *fakeBeneficiaries) GetByNIF(ctx context.Context, nif string) (*beneficiary.Beneficiary, error) {
	if f.ben == nil || f.ben.NIF != nif {
		return nil, apperror.NewNotFound("beneficiary", nif)
	}
	return f.ben, nil
}

type fakeExits struct {
	records []ledger.ExitRecord
}

func (f *fakeExits) ExitsForBeneficiary(ctx context.Context, nif string) ([]ledger.ExitRecord, error) {
	return f.records, nil
}

type fakeInstitutions struct {
	byID map[id.ID]*institution.Institution
}

func (f *fakeInstitutions) GetByID(ctx context.Context, institutionID id.ID) (*institution.Institution, error) {
	if inst, ok := f.byID[institutionID]; ok {
		return inst, nil
	}
	return nil, apperror.NewNotFound("institution", institutionID)
}

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func newTestService(ben *beneficiary.Beneficiary, records []ledger.ExitRecord, insts map[id.ID]*institution.Institution) *Service {
	return NewService(
		&fakeBeneficiaries{ben: ben},
		&fakeExits{records: records},
		&fakeInstitutions{byID: insts},
	).WithClock(func() time.Time { return testNow })
}

func exitRecord(instID *id.ID, instName, instType string, daysAgo int) ledger.ExitRecord {
	return ledger.ExitRecord{
		EntryID:          id.New(),
		ItemID:           id.New(),
		ItemName:         "Arroz 1kg",
		ItemUnit:         "kg",
		InstitutionID:    instID,
		InstitutionName:  instName,
		InstitutionType:  instType,
		BeneficiaryNIF:   "123456789",
		Quantity:         types.NewQuantityFromFloat64(2),
		OccurredAt:       testNow.AddDate(0, 0, -daysAgo),
		Reason:           "cesta básica",
		Observations:     "família de 5",
		DeliveryLocation: "abrigo norte",
	}
}

func TestResolveUnknownNIF(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	_, err := svc.Resolve(context.Background(), "000000000", id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestResolvePartitionsHistoryByOwnership(t *testing.T) {
	mine := id.New()
	other := id.New()
	ben := &beneficiary.Beneficiary{NIF: "123456789", Name: "Maria Silva", Zone: "Norte"}

	records := []ledger.ExitRecord{
		exitRecord(&mine, "Cruz Azul", "ong", 20),
		exitRecord(&other, "Prefeitura", "governo", 30),
	}
	svc := newTestService(ben, records, nil)

	result, err := svc.Resolve(context.Background(), "123456789", mine)
	assert.NoError(t, err)

	assert.Len(t, result.Mine, 1)
	assert.Len(t, result.Others, 1)
	assert.Equal(t, 1, result.TotalMine)
	assert.Equal(t, 1, result.TotalOthers)

	// Own exits keep full operational detail.
	own := result.Mine[0]
	assert.Equal(t, "cesta básica", own.Reason)
	assert.Equal(t, "abrigo norte", own.DeliveryLocation)

	// Foreign exits only carry what duplicate-prevention needs.
	assert.Equal(t, "Prefeitura", result.Others[0].InstitutionName)
	assert.Equal(t, "governo", result.Others[0].InstitutionType)

	assert.Equal(t, []string{"Cruz Azul", "Prefeitura"}, result.HelpedBy)
	assert.Empty(t, result.Warnings, "old exits must not warn")
}

func TestResolveOrphanedExitDisplaysRemovedInstitution(t *testing.T) {
	ben := &beneficiary.Beneficiary{NIF: "123456789", Name: "Maria Silva"}
	records := []ledger.ExitRecord{exitRecord(nil, "", "", 10)}
	svc := newTestService(ben, records, nil)

	result, err := svc.Resolve(context.Background(), "123456789", id.New())
	assert.NoError(t, err)
	assert.Len(t, result.Others, 1)
	assert.Equal(t, "instituição removida", result.Others[0].InstitutionName)
	assert.Equal(t, []string{"instituição removida"}, result.HelpedBy)
}

func TestResolveWarnsAboutRecentAid(t *testing.T) {
	mine := id.New()
	other := id.New()
	ben := &beneficiary.Beneficiary{NIF: "123456789", Name: "Maria Silva"}

	records := []ledger.ExitRecord{
		exitRecord(&other, "Prefeitura", "governo", 2),
		exitRecord(&other, "Prefeitura", "governo", 5),
		exitRecord(&mine, "Cruz Azul", "ong", 3),
		exitRecord(&other, "Prefeitura", "governo", 60),
	}
	svc := newTestService(ben, records, nil)

	result, err := svc.Resolve(context.Background(), "123456789", mine)
	assert.NoError(t, err)
	assert.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "received 3 distributions in the last 7 days")
	assert.Contains(t, result.Warnings[0], "Cruz Azul, Prefeitura")
	assert.Contains(t, result.Warnings[1], "your institution already helped this beneficiary 1 time(s)")
}

func TestResolveOmitsOwnWarningWhenOnlyOthersHelped(t *testing.T) {
	other := id.New()
	ben := &beneficiary.Beneficiary{NIF: "123456789", Name: "Maria Silva"}
	records := []ledger.ExitRecord{exitRecord(&other, "Prefeitura", "governo", 1)}
	svc := newTestService(ben, records, nil)

	result, err := svc.Resolve(context.Background(), "123456789", id.New())
	assert.NoError(t, err)
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "received 1 distributions")
}

func TestResolveIncludesRegisteringInstitution(t *testing.T) {
	owner := id.New()
	ben := &beneficiary.Beneficiary{NIF: "123456789", Name: "Maria Silva", RegisteredBy: &owner}
	insts := map[id.ID]*institution.Institution{
		owner: {ID: owner, Name: "Cruz Azul", Type: "ong"},
	}
	svc := newTestService(ben, nil, insts)

	result, err := svc.Resolve(context.Background(), "123456789", id.New())
	assert.NoError(t, err)
	assert.NotNil(t, result.RegisteredBy)
	assert.Equal(t, "Cruz Azul", result.RegisteredBy.Name)
	assert.Equal(t, "ong", result.RegisteredBy.Type)

	assert.Empty(t, result.Mine)
	assert.Empty(t, result.Others)
}
