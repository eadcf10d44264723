package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/beneficiary"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/storage/postgres"
)

const beneficiariesTable = "beneficiaries"

var beneficiaryCols = []string{
	"nif", "name", "age", "address", "contact", "household_size",
	"needs", "observations", "zone", "reported_losses",
	"registered_by", "registered_at",
}

var _ beneficiary.Repository = (*BeneficiaryRepo)(nil)

// BeneficiaryRepo implements beneficiary.Repository.
type BeneficiaryRepo struct {
	tm *postgres.TxManager
}

// NewBeneficiaryRepo creates a new beneficiary repository.
func NewBeneficiaryRepo(tm *postgres.TxManager) *BeneficiaryRepo {
	return &BeneficiaryRepo{tm: tm}
}

func (r *BeneficiaryRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new beneficiary.
func (r *BeneficiaryRepo) Create(ctx context.Context, b *beneficiary.Beneficiary) error {
	q := r.builder().
		Insert(beneficiariesTable).
		Columns(beneficiaryCols...).
		Values(
			b.NIF, b.Name, b.Age, b.Address, b.Contact, b.HouseholdSize,
			b.Needs, b.Observations, b.Zone, b.ReportedLosses,
			b.RegisteredBy, b.RegisteredAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert beneficiary: %w", err)
	}
	return nil
}

// Update modifies a beneficiary profile. The NIF never changes.
func (r *BeneficiaryRepo) Update(ctx context.Context, b *beneficiary.Beneficiary) error {
	q := r.builder().
		Update(beneficiariesTable).
		Set("name", b.Name).
		Set("age", b.Age).
		Set("address", b.Address).
		Set("contact", b.Contact).
		Set("household_size", b.HouseholdSize).
		Set("needs", b.Needs).
		Set("observations", b.Observations).
		Set("zone", b.Zone).
		Set("reported_losses", b.ReportedLosses).
		Where(squirrel.Eq{"nif": b.NIF})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update beneficiary: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("beneficiary", b.NIF)
	}
	return nil
}

// GetByNIF fetches a beneficiary globally, any institution.
func (r *BeneficiaryRepo) GetByNIF(ctx context.Context, nif string) (*beneficiary.Beneficiary, error) {
	q := r.builder().
		Select(beneficiaryCols...).
		From(beneficiariesTable).
		Where(squirrel.Eq{"nif": nif}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b beneficiary.Beneficiary
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("beneficiary", nif)
		}
		return nil, fmt.Errorf("get beneficiary: %w", err)
	}
	return &b, nil
}

// Exists reports whether a NIF is already registered.
func (r *BeneficiaryRepo) Exists(ctx context.Context, nif string) (bool, error) {
	q := r.builder().
		Select("1").
		From(beneficiariesTable).
		Where(squirrel.Eq{"nif": nif}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.tm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// ListByInstitution returns beneficiaries registered by one institution.
func (r *BeneficiaryRepo) ListByInstitution(ctx context.Context, institutionID id.ID, filter beneficiary.ListFilter) ([]beneficiary.Beneficiary, error) {
	q := r.builder().
		Select(beneficiaryCols...).
		From(beneficiariesTable).
		Where(squirrel.Eq{"registered_by": institutionID}).
		OrderBy("name ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"nif": pattern},
			squirrel.ILike{"zone": pattern},
		})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var list []beneficiary.Beneficiary
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	return list, nil
}

// Count returns the total number of registered beneficiaries.
func (r *BeneficiaryRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.tm.GetQuerier(ctx).
		QueryRow(ctx, "SELECT COUNT(*) FROM "+beneficiariesTable).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count beneficiaries: %w", err)
	}
	return count, nil
}

// ReassignOwner moves all beneficiaries registered by one institution to
// another. Used when the owner is removed, inside the removal transaction.
func (r *BeneficiaryRepo) ReassignOwner(ctx context.Context, from, to id.ID) (int64, error) {
	q := r.builder().
		Update(beneficiariesTable).
		Set("registered_by", to).
		Where(squirrel.Eq{"registered_by": from})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build reassign update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("reassign beneficiaries: %w", err)
	}
	return result.RowsAffected(), nil
}
