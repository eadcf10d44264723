// Package report_repo provides the PostgreSQL read side for reporting
// and the compressed monthly report archive.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/reports"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository with aggregate queries over
// the movement ledger.
type ReportRepo struct {
	tm *postgres.TxManager
}

// NewReportRepo creates a new reporting repository.
func NewReportRepo(tm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{tm: tm}
}

func (r *ReportRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CountBeneficiaries counts all registered beneficiaries.
func (r *ReportRepo) CountBeneficiaries(ctx context.Context) (int64, error) {
	var count int64
	err := r.tm.GetQuerier(ctx).
		QueryRow(ctx, "SELECT COUNT(*) FROM beneficiaries").
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count beneficiaries: %w", err)
	}
	return count, nil
}

// CountServedSince counts distinct beneficiaries with at least one exit
// since the given time.
func (r *ReportRepo) CountServedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.tm.GetQuerier(ctx).QueryRow(ctx, `
		SELECT COUNT(DISTINCT beneficiary_nif)
		FROM movements
		WHERE direction = 'saida' AND occurred_at >= $1`, since).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count served: %w", err)
	}
	return count, nil
}

// ExitsByZone groups exits since the given time by beneficiary zone.
func (r *ReportRepo) ExitsByZone(ctx context.Context, since time.Time) ([]reports.ZoneCount, error) {
	q := r.builder().
		Select("COALESCE(NULLIF(b.zone, ''), 'sem zona') AS zone", "COUNT(m.id) AS total").
		From("movements m").
		Join("beneficiaries b ON b.nif = m.beneficiary_nif").
		Where(squirrel.Eq{"m.direction": "saida"}).
		Where(squirrel.GtOrEq{"m.occurred_at": since}).
		GroupBy("zone").
		OrderBy("total DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build zone query: %w", err)
	}

	var zones []reports.ZoneCount
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &zones, sql, args...); err != nil {
		return nil, fmt.Errorf("group by zone: %w", err)
	}
	return zones, nil
}

// TopServed returns beneficiaries with the most exits, most first.
func (r *ReportRepo) TopServed(ctx context.Context, since time.Time, limit int) ([]reports.ServedBeneficiary, error) {
	return r.ranked(ctx, since, limit, "total DESC, b.name ASC", true)
}

// LeastServed returns served beneficiaries with the fewest exits, fewest
// first. Zero-exit beneficiaries rank first thanks to the outer join.
func (r *ReportRepo) LeastServed(ctx context.Context, since time.Time, limit int) ([]reports.ServedBeneficiary, error) {
	return r.ranked(ctx, since, limit, "total ASC, b.name ASC", false)
}

func (r *ReportRepo) ranked(ctx context.Context, since time.Time, limit int, orderBy string, innerJoin bool) ([]reports.ServedBeneficiary, error) {
	q := r.builder().
		Select("b.nif", "b.name", "COALESCE(b.zone, '') AS zone", "COUNT(m.id) AS total").
		From("beneficiaries b")

	joinExpr := "movements m ON m.beneficiary_nif = b.nif AND m.direction = 'saida' AND m.occurred_at >= ?"
	if innerJoin {
		q = q.Join(joinExpr, since)
	} else {
		q = q.LeftJoin(joinExpr, since)
	}

	q = q.GroupBy("b.nif", "b.name", "b.zone").
		OrderBy(orderBy).
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ranking query: %w", err)
	}

	var ranked []reports.ServedBeneficiary
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &ranked, sql, args...); err != nil {
		return nil, fmt.Errorf("rank beneficiaries: %w", err)
	}
	return ranked, nil
}

// MonthlyTotals aggregates one institution's movements for a period.
func (r *ReportRepo) MonthlyTotals(ctx context.Context, institutionID id.ID, from, to time.Time) (int64, int64, []reports.ItemMovementTotal, error) {
	querier := r.tm.GetQuerier(ctx)

	var movements, aided int64
	err := querier.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT beneficiary_nif) FILTER (WHERE direction = 'saida')
		FROM movements
		WHERE institution_id = $1 AND occurred_at >= $2 AND occurred_at < $3`,
		institutionID, from, to).
		Scan(&movements, &aided)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("monthly counts: %w", err)
	}

	q := r.builder().
		Select(
			"i.id AS item_id", "i.name AS item_name", "i.unit AS item_unit",
			"COALESCE(SUM(m.quantity) FILTER (WHERE m.direction = 'entrada'), 0) AS entries",
			"COALESCE(SUM(m.quantity) FILTER (WHERE m.direction = 'saida'), 0) AS exits",
		).
		From("movements m").
		Join("items i ON i.id = m.item_id").
		Where(squirrel.Eq{"m.institution_id": institutionID}).
		Where(squirrel.GtOrEq{"m.occurred_at": from}).
		Where(squirrel.Lt{"m.occurred_at": to}).
		GroupBy("i.id", "i.name", "i.unit").
		OrderBy("i.name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("build item totals query: %w", err)
	}

	var items []reports.ItemMovementTotal
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return 0, 0, nil, fmt.Errorf("item totals: %w", err)
	}

	return movements, aided, items, nil
}
