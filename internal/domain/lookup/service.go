package lookup

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
)

// recentAidDays is the fraud-warning window.
const recentAidDays = 7

// BeneficiaryReader resolves beneficiaries globally.
type BeneficiaryReader interface {
	GetByNIF(ctx context.Context, nif string) (*beneficiary.Beneficiary, error)
}

// ExitsReader fetches the cross-institution exit history.
type ExitsReader interface {
	ExitsForBeneficiary(ctx context.Context, nif string) ([]ledger.ExitRecord, error)
}

// InstitutionReader resolves institutions for display.
type InstitutionReader interface {
	GetByID(ctx context.Context, institutionID id.ID) (*institution.Institution, error)
}

// Service performs cross-institution beneficiary resolution.
type Service struct {
	beneficiaries BeneficiaryReader
	movements     ExitsReader
	institutions  InstitutionReader
	now           func() time.Time
}

// NewService creates a new lookup service.
func NewService(beneficiaries BeneficiaryReader, movements ExitsReader, institutions InstitutionReader) *Service {
	return &Service{
		beneficiaries: beneficiaries,
		movements:     movements,
		institutions:  institutions,
		now:           time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Resolve finds a beneficiary by NIF for a requesting institution.
// Returns a NOT_FOUND AppError when the NIF is unknown; exits never
// create beneficiaries implicitly.
func (s *Service) Resolve(ctx context.Context, nif string, requestingInstitution id.ID) (*Result, error) {
	ben, err := s.beneficiaries.GetByNIF(ctx, nif)
	if err != nil {
		return nil, err
	}

	history, err := s.movements.ExitsForBeneficiary(ctx, nif)
	if err != nil {
		return nil, fmt.Errorf("load exit history: %w", err)
	}

	result := &Result{
		Beneficiary: ben,
		Mine:        []OwnExit{},
		Others:      []RedactedExit{},
	}

	if ben.RegisteredBy != nil {
		if reg, err := s.institutions.GetByID(ctx, *ben.RegisteredBy); err == nil {
			result.RegisteredBy = &InstitutionRef{Name: reg.Name, Type: reg.Type}
		}
	}

	helpedBy := map[string]struct{}{}
	cutoff := s.now().UTC().AddDate(0, 0, -recentAidDays)
	recentInstitutions := map[string]struct{}{}
	recentTotal := 0
	recentMine := 0

	for _, rec := range history {
		instName := rec.InstitutionName
		if rec.Attribution().IsOrphaned() {
			instName = "instituição removida"
		}
		helpedBy[instName] = struct{}{}

		mine := false
		if instID, known := rec.Attribution().InstitutionID(); known && instID == requestingInstitution {
			mine = true
		}

		if mine {
			result.Mine = append(result.Mine, OwnExit{
				EntryID:          rec.EntryID,
				Date:             rec.OccurredAt,
				ItemName:         rec.ItemName,
				ItemUnit:         rec.ItemUnit,
				Quantity:         rec.Quantity,
				Reason:           rec.Reason,
				Observations:     rec.Observations,
				DeliveryLocation: rec.DeliveryLocation,
			})
		} else {
			result.Others = append(result.Others, RedactedExit{
				Date:            rec.OccurredAt,
				ItemName:        rec.ItemName,
				Quantity:        rec.Quantity,
				InstitutionName: instName,
				InstitutionType: rec.InstitutionType,
			})
		}

		if !rec.OccurredAt.Before(cutoff) {
			recentTotal++
			recentInstitutions[instName] = struct{}{}
			if mine {
				recentMine++
			}
		}
	}

	result.TotalMine = len(result.Mine)
	result.TotalOthers = len(result.Others)
	result.HelpedBy = sortedKeys(helpedBy)

	if recentTotal > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"received %d distributions in the last %d days from: %s",
			recentTotal, recentAidDays, strings.Join(sortedKeys(recentInstitutions), ", "),
		))
	}
	if recentMine > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"your institution already helped this beneficiary %d time(s) in the last %d days",
			recentMine, recentAidDays,
		))
	}

	return result, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
