package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/storage/postgres"
)

const institutionsTable = "institutions"

var institutionCols = []string{
	"id", "name", "username", "email", "phone", "address", "contact_name",
	"type", "legal_document", "description", "password_hash",
	"approved", "active", "approved_by", "approved_at",
	"is_admin", "admin_notes", "created_at",
}

var _ institution.Repository = (*InstitutionRepo)(nil)

// InstitutionRepo implements institution.Repository.
type InstitutionRepo struct {
	tm *postgres.TxManager
}

// NewInstitutionRepo creates a new institution repository.
func NewInstitutionRepo(tm *postgres.TxManager) *InstitutionRepo {
	return &InstitutionRepo{tm: tm}
}

func (r *InstitutionRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new institution.
func (r *InstitutionRepo) Create(ctx context.Context, inst *institution.Institution) error {
	q := r.builder().
		Insert(institutionsTable).
		Columns(institutionCols...).
		Values(
			inst.ID, inst.Name, inst.Username, inst.Email, inst.Phone,
			inst.Address, inst.ContactName, inst.Type, inst.LegalDocument,
			inst.Description, inst.PasswordHash,
			inst.Approved, inst.Active, inst.ApprovedBy, inst.ApprovedAt,
			inst.IsAdmin, inst.AdminNotes, inst.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		// 23505: unique violation on username or email
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("institution", "username or email", inst.Username).WithCause(err)
		}
		return fmt.Errorf("insert institution: %w", err)
	}
	return nil
}

// Update modifies an existing institution.
func (r *InstitutionRepo) Update(ctx context.Context, inst *institution.Institution) error {
	q := r.builder().
		Update(institutionsTable).
		Set("name", inst.Name).
		Set("email", inst.Email).
		Set("phone", inst.Phone).
		Set("address", inst.Address).
		Set("contact_name", inst.ContactName).
		Set("type", inst.Type).
		Set("legal_document", inst.LegalDocument).
		Set("description", inst.Description).
		Set("password_hash", inst.PasswordHash).
		Set("approved", inst.Approved).
		Set("active", inst.Active).
		Set("approved_by", inst.ApprovedBy).
		Set("approved_at", inst.ApprovedAt).
		Set("admin_notes", inst.AdminNotes).
		Where(squirrel.Eq{"id": inst.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update institution: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("institution", inst.ID.String())
	}
	return nil
}

// Delete removes an institution row. Owned records must be reassigned
// first; the service wraps this in a transaction with the orphaning steps.
func (r *InstitutionRepo) Delete(ctx context.Context, institutionID id.ID) error {
	q := r.builder().
		Delete(institutionsTable).
		Where(squirrel.Eq{"id": institutionID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewConflict("institution still owns records").
				WithDetail("id", institutionID.String()).
				WithCause(err)
		}
		return fmt.Errorf("delete institution: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("institution", institutionID.String())
	}
	return nil
}

// GetByID retrieves an institution by ID.
func (r *InstitutionRepo) GetByID(ctx context.Context, institutionID id.ID) (*institution.Institution, error) {
	return r.getOne(ctx, squirrel.Eq{"id": institutionID}, institutionID.String())
}

// FindByUsername returns nil when absent.
func (r *InstitutionRepo) FindByUsername(ctx context.Context, username string) (*institution.Institution, error) {
	inst, err := r.getOne(ctx, squirrel.Eq{"username": username}, username)
	if apperror.IsNotFound(err) {
		return nil, nil
	}
	return inst, err
}

// FindByEmail returns nil when absent.
func (r *InstitutionRepo) FindByEmail(ctx context.Context, email string) (*institution.Institution, error) {
	inst, err := r.getOne(ctx, squirrel.Eq{"email": email}, email)
	if apperror.IsNotFound(err) {
		return nil, nil
	}
	return inst, err
}

func (r *InstitutionRepo) getOne(ctx context.Context, where squirrel.Sqlizer, key string) (*institution.Institution, error) {
	q := r.builder().
		Select(institutionCols...).
		From(institutionsTable).
		Where(where).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inst institution.Institution
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &inst, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("institution", key)
		}
		return nil, fmt.Errorf("get institution: %w", err)
	}
	return &inst, nil
}

// ListPending returns unapproved institutions, newest first.
func (r *InstitutionRepo) ListPending(ctx context.Context) ([]institution.Institution, error) {
	return r.list(ctx, squirrel.Eq{"approved": false}, "created_at DESC")
}

// ListApproved returns approved institutions ordered by name.
func (r *InstitutionRepo) ListApproved(ctx context.Context) ([]institution.Institution, error) {
	return r.list(ctx, squirrel.Eq{"approved": true}, "name ASC")
}

func (r *InstitutionRepo) list(ctx context.Context, where squirrel.Sqlizer, orderBy string) ([]institution.Institution, error) {
	q := r.builder().
		Select(institutionCols...).
		From(institutionsTable).
		Where(where).
		OrderBy(orderBy)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var list []institution.Institution
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	return list, nil
}

// FindFallbackAdmin returns the oldest active administrative institution.
// Its absence is a deployment invariant violation, reported as NOT_FOUND.
func (r *InstitutionRepo) FindFallbackAdmin(ctx context.Context) (*institution.Institution, error) {
	q := r.builder().
		Select(institutionCols...).
		From(institutionsTable).
		Where(squirrel.Eq{"is_admin": true, "active": true}).
		OrderBy("created_at ASC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inst institution.Institution
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &inst, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("fallback admin institution", "is_admin")
		}
		return nil, fmt.Errorf("find fallback admin: %w", err)
	}
	return &inst, nil
}

// Stats returns registration pipeline statistics.
func (r *InstitutionRepo) Stats(ctx context.Context) (institution.Stats, error) {
	var stats institution.Stats
	err := r.tm.GetQuerier(ctx).QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE approved),
		       COUNT(*) FILTER (WHERE NOT approved),
		       COUNT(*) FILTER (WHERE active)
		FROM `+institutionsTable).
		Scan(&stats.Total, &stats.Approved, &stats.Pending, &stats.Active)
	if err != nil {
		return institution.Stats{}, fmt.Errorf("institution stats: %w", err)
	}

	stats.ApprovalRate = types.Percent(stats.Approved, stats.Total).String() + "%"
	return stats, nil
}
