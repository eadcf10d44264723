package beneficiary

import (
	"context"
	"fmt"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/pkg/logger"
)

// Service provides business operations for the beneficiary registry.
type Service struct {
	repo Repository
}

// NewService creates a new beneficiary service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a beneficiary on first encounter. NIFs are unique
// system-wide; a duplicate means the person is already known to some
// institution and should be resolved via lookup instead.
func (s *Service) Register(ctx context.Context, b *Beneficiary) error {
	if err := b.Validate(); err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, b.NIF)
	if err != nil {
		return fmt.Errorf("check NIF: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("beneficiary", "nif", b.NIF)
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return fmt.Errorf("create beneficiary: %w", err)
	}

	logger.Info(ctx, "beneficiary registered", "nif", b.NIF, "zone", b.Zone)
	return nil
}

// GetByNIF fetches a beneficiary globally.
func (s *Service) GetByNIF(ctx context.Context, nif string) (*Beneficiary, error) {
	return s.repo.GetByNIF(ctx, nif)
}

// ListOwn returns the requesting institution's registered beneficiaries.
func (s *Service) ListOwn(ctx context.Context, institutionID id.ID, filter ListFilter) ([]Beneficiary, error) {
	return s.repo.ListByInstitution(ctx, institutionID, filter)
}

// UpdateProfile updates profile fields. Only the registering institution
// may mutate a beneficiary; other institutions get read access via lookup.
func (s *Service) UpdateProfile(ctx context.Context, b *Beneficiary, requestingInstitution id.ID) error {
	if err := b.Validate(); err != nil {
		return err
	}

	current, err := s.repo.GetByNIF(ctx, b.NIF)
	if err != nil {
		return err
	}
	if current.RegisteredBy == nil || *current.RegisteredBy != requestingInstitution {
		return apperror.NewForbidden("only the registering institution may edit this beneficiary")
	}

	b.RegisteredBy = current.RegisteredBy
	b.RegisteredAt = current.RegisteredAt

	if err := s.repo.Update(ctx, b); err != nil {
		return fmt.Errorf("update beneficiary: %w", err)
	}
	return nil
}
