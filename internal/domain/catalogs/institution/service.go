package institution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/tx"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
	"github.com/Edmilson-999/Sistema-stock-sv/pkg/logger"
)

// Service provides registration, approval and removal of institutions.
type Service struct {
	repo          Repository
	beneficiaries beneficiary.Repository
	movements     ledger.Repository
	txManager     tx.Manager
}

// NewService creates a new institution service.
func NewService(repo Repository, beneficiaries beneficiary.Repository, movements ledger.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:          repo,
		beneficiaries: beneficiaries,
		movements:     movements,
		txManager:     txManager,
	}
}

// Register creates a pending institution from a signup request.
func (s *Service) Register(ctx context.Context, reg Registration) (*Institution, error) {
	inst, err := NewFromRegistration(reg)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByUsername(ctx, inst.Username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if existing != nil {
		return nil, apperror.NewDuplicate("institution", "username", inst.Username)
	}

	if existing, err := s.repo.FindByEmail(ctx, inst.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return nil, apperror.NewDuplicate("institution", "email", inst.Email)
	}

	if err := s.repo.Create(ctx, inst); err != nil {
		return nil, fmt.Errorf("create institution: %w", err)
	}

	logger.Info(ctx, "institution registered, pending approval",
		"id", inst.ID, "username", inst.Username, "type", inst.Type)
	return inst, nil
}

// GetByID retrieves an institution.
func (s *Service) GetByID(ctx context.Context, institutionID id.ID) (*Institution, error) {
	return s.repo.GetByID(ctx, institutionID)
}

// FindByUsername retrieves an institution by username (nil when absent).
func (s *Service) FindByUsername(ctx context.Context, username string) (*Institution, error) {
	return s.repo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
}

// ListPending returns institutions awaiting approval.
func (s *Service) ListPending(ctx context.Context) ([]Institution, error) {
	return s.repo.ListPending(ctx)
}

// ListApproved returns approved institutions.
func (s *Service) ListApproved(ctx context.Context) ([]Institution, error) {
	return s.repo.ListApproved(ctx)
}

// Approve activates a pending institution.
func (s *Service) Approve(ctx context.Context, institutionID id.ID, approvedBy string) error {
	inst, err := s.repo.GetByID(ctx, institutionID)
	if err != nil {
		return err
	}
	if inst.Approved {
		return apperror.NewConflict("institution is already approved")
	}

	inst.Approve(approvedBy)
	if err := s.repo.Update(ctx, inst); err != nil {
		return fmt.Errorf("approve institution: %w", err)
	}

	logger.Info(ctx, "institution approved",
		"id", inst.ID, "username", inst.Username, "approved_by", approvedBy)
	return nil
}

// Reject annotates and removes a pending institution. Pending tenants
// own no beneficiaries or movements yet, so no reassignment is needed.
func (s *Service) Reject(ctx context.Context, institutionID id.ID, reason, rejectedBy string) error {
	inst, err := s.repo.GetByID(ctx, institutionID)
	if err != nil {
		return err
	}
	if inst.Approved {
		return apperror.NewConflict("approved institutions must be removed, not rejected")
	}

	note := fmt.Sprintf("rejected by %s at %s: %s",
		rejectedBy, time.Now().UTC().Format("2006-01-02 15:04"), reason)
	inst.AdminNotes = strings.TrimSpace(inst.AdminNotes + "\n" + note)
	if err := s.repo.Update(ctx, inst); err != nil {
		return fmt.Errorf("annotate rejection: %w", err)
	}

	if err := s.repo.Delete(ctx, institutionID); err != nil {
		return fmt.Errorf("delete rejected institution: %w", err)
	}

	logger.Info(ctx, "institution rejected",
		"id", inst.ID, "username", inst.Username, "rejected_by", rejectedBy)
	return nil
}

// Deactivate suspends an institution without touching its records.
func (s *Service) Deactivate(ctx context.Context, institutionID id.ID) error {
	inst, err := s.repo.GetByID(ctx, institutionID)
	if err != nil {
		return err
	}
	if !inst.Active {
		return nil
	}
	inst.Active = false
	return s.repo.Update(ctx, inst)
}

// Remove deletes an institution. Its ledger movements become orphaned
// (attribution cleared, rows kept) and its registered beneficiaries are
// reassigned to the fallback administrative institution, all in one
// transaction, so no reference is ever left dangling.
func (s *Service) Remove(ctx context.Context, institutionID id.ID) error {
	inst, err := s.repo.GetByID(ctx, institutionID)
	if err != nil {
		return err
	}
	if inst.IsAdmin {
		return apperror.NewForbidden("the administrative institution cannot be removed")
	}

	fallback, err := s.repo.FindFallbackAdmin(ctx)
	if err != nil {
		return fmt.Errorf("resolve fallback institution: %w", err)
	}

	var orphanedMovements, reassigned int64
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		orphanedMovements, err = s.movements.OrphanByInstitution(ctx, institutionID)
		if err != nil {
			return fmt.Errorf("orphan movements: %w", err)
		}

		reassigned, err = s.beneficiaries.ReassignOwner(ctx, institutionID, fallback.ID)
		if err != nil {
			return fmt.Errorf("reassign beneficiaries: %w", err)
		}

		if err := s.repo.Delete(ctx, institutionID); err != nil {
			return fmt.Errorf("delete institution: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "institution removed",
		"id", inst.ID,
		"username", inst.Username,
		"orphaned_movements", orphanedMovements,
		"reassigned_beneficiaries", reassigned,
		"fallback", fallback.Username,
	)
	return nil
}

// Stats returns registration pipeline statistics.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}
