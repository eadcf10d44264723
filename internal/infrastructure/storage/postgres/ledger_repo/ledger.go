// Package ledger_repo provides the PostgreSQL implementation of the
// movement ledger. Rows are append-only; quantities are always derived
// with aggregate queries, never read from a balance table.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/ledger"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/storage/postgres"
)

const movementsTable = "movements"

var movementCols = []string{
	"id", "item_id", "institution_id", "beneficiary_nif", "direction",
	"quantity", "occurred_at", "reason", "observations",
	"donation_source", "delivery_location", "created_at",
}

// Compile-time check.
var _ ledger.Repository = (*LedgerRepo)(nil)

// movementRow is the storage shape of a ledger entry. The nullable
// institution column maps to the domain's Attribution sum type.
type movementRow struct {
	ID               id.ID            `db:"id"`
	ItemID           id.ID            `db:"item_id"`
	InstitutionID    *id.ID           `db:"institution_id"`
	BeneficiaryNIF   *string          `db:"beneficiary_nif"`
	Direction        ledger.Direction `db:"direction"`
	Quantity         types.Quantity   `db:"quantity"`
	OccurredAt       time.Time        `db:"occurred_at"`
	Reason           string           `db:"reason"`
	Observations     string           `db:"observations"`
	DonationSource   string           `db:"donation_source"`
	DeliveryLocation string           `db:"delivery_location"`
	CreatedAt        time.Time        `db:"created_at"`
}

func (r movementRow) toEntry() ledger.Entry {
	return ledger.Entry{
		ID:               r.ID,
		ItemID:           r.ItemID,
		Institution:      ledger.AttributionFromNullable(r.InstitutionID),
		BeneficiaryNIF:   r.BeneficiaryNIF,
		Direction:        r.Direction,
		Quantity:         r.Quantity,
		OccurredAt:       r.OccurredAt,
		Reason:           r.Reason,
		Observations:     r.Observations,
		DonationSource:   r.DonationSource,
		DeliveryLocation: r.DeliveryLocation,
		CreatedAt:        r.CreatedAt,
	}
}

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	tm *postgres.TxManager
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(tm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{tm: tm}
}

func (r *LedgerRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Append inserts one immutable ledger row.
func (r *LedgerRepo) Append(ctx context.Context, entry *ledger.Entry) error {
	q := r.builder().
		Insert(movementsTable).
		Columns(movementCols...).
		Values(
			entry.ID,
			entry.ItemID,
			entry.Institution.Nullable(),
			entry.BeneficiaryNIF,
			entry.Direction,
			entry.Quantity,
			entry.OccurredAt,
			entry.Reason,
			entry.Observations,
			entry.DonationSource,
			entry.DeliveryLocation,
			entry.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// LockItem takes a per-item advisory lock, serializing concurrent
// check-then-append sequences for the same item. Transaction-scoped:
// released automatically on commit or rollback.
func (r *LedgerRepo) LockItem(ctx context.Context, itemID id.ID) error {
	if r.tm.GetTx(ctx) == nil {
		return fmt.Errorf("lock item: no active transaction")
	}
	_, err := r.tm.GetQuerier(ctx).Exec(ctx,
		"SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))", itemID)
	if err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

// OnHand sums entries minus exits for an item across all institutions.
func (r *LedgerRepo) OnHand(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	return r.sumOnHand(ctx, squirrel.Eq{"item_id": itemID})
}

// OnHandForInstitution filters the same formula by attribution. The
// result may be negative: institutions draw from a shared pool.
func (r *LedgerRepo) OnHandForInstitution(ctx context.Context, itemID, institutionID id.ID) (types.Quantity, error) {
	return r.sumOnHand(ctx, squirrel.And{
		squirrel.Eq{"item_id": itemID},
		squirrel.Eq{"institution_id": institutionID},
	})
}

func (r *LedgerRepo) sumOnHand(ctx context.Context, where squirrel.Sqlizer) (types.Quantity, error) {
	q := r.builder().
		Select("COALESCE(SUM(CASE WHEN direction = 'entrada' THEN quantity ELSE -quantity END), 0)").
		From(movementsTable).
		Where(where)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build on-hand query: %w", err)
	}

	var total types.Quantity
	if err := r.tm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum on-hand: %w", err)
	}
	return total, nil
}

// SumExitsForBeneficiaryItem sums exits of one item to one beneficiary
// since the given time, across all institutions.
func (r *LedgerRepo) SumExitsForBeneficiaryItem(ctx context.Context, nif string, itemID id.ID, since time.Time) (types.Quantity, error) {
	q := r.builder().
		Select("COALESCE(SUM(quantity), 0)").
		From(movementsTable).
		Where(squirrel.Eq{"direction": ledger.DirectionExit, "beneficiary_nif": nif, "item_id": itemID}).
		Where(squirrel.GtOrEq{"occurred_at": since})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build window sum: %w", err)
	}

	var total types.Quantity
	if err := r.tm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum window exits: %w", err)
	}
	return total, nil
}

// CountExitsForBeneficiaryItem counts exits of one item to one
// beneficiary since the given time.
func (r *LedgerRepo) CountExitsForBeneficiaryItem(ctx context.Context, nif string, itemID id.ID, since time.Time) (int, error) {
	return r.countExits(ctx, squirrel.And{
		squirrel.Eq{"beneficiary_nif": nif, "item_id": itemID},
		squirrel.GtOrEq{"occurred_at": since},
	})
}

// CountExitsForBeneficiary counts all exits to one beneficiary since the
// given time, any item, any institution.
func (r *LedgerRepo) CountExitsForBeneficiary(ctx context.Context, nif string, since time.Time) (int, error) {
	return r.countExits(ctx, squirrel.And{
		squirrel.Eq{"beneficiary_nif": nif},
		squirrel.GtOrEq{"occurred_at": since},
	})
}

func (r *LedgerRepo) countExits(ctx context.Context, where squirrel.Sqlizer) (int, error) {
	q := r.builder().
		Select("COUNT(*)").
		From(movementsTable).
		Where(squirrel.Eq{"direction": ledger.DirectionExit}).
		Where(where)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := r.tm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count exits: %w", err)
	}
	return count, nil
}

// ExitsForBeneficiary returns the full cross-institution exit history,
// joined with item and institution display data, newest first. Rows of
// removed institutions come back with a NULL institution and empty
// display fields.
func (r *LedgerRepo) ExitsForBeneficiary(ctx context.Context, nif string) ([]ledger.ExitRecord, error) {
	q := r.builder().
		Select(
			"m.id", "m.item_id",
			"i.name AS item_name", "i.unit AS item_unit",
			"m.institution_id",
			"COALESCE(inst.name, '') AS institution_name",
			"COALESCE(inst.type, '') AS institution_type",
			"m.beneficiary_nif", "m.quantity", "m.occurred_at",
			"m.reason", "m.observations", "m.delivery_location",
		).
		From(movementsTable + " m").
		Join("items i ON i.id = m.item_id").
		LeftJoin("institutions inst ON inst.id = m.institution_id").
		Where(squirrel.Eq{"m.direction": ledger.DirectionExit, "m.beneficiary_nif": nif}).
		OrderBy("m.occurred_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	var records []ledger.ExitRecord
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list beneficiary exits: %w", err)
	}
	return records, nil
}

// LeastServed returns beneficiaries with the fewest distributions in a
// category since the given time, fewest first. The outer join keeps
// beneficiaries with zero distributions at the top.
func (r *LedgerRepo) LeastServed(ctx context.Context, category string, since time.Time, limit int) ([]ledger.ServedCount, error) {
	q := r.builder().
		Select(
			"b.nif", "b.name", "COALESCE(b.zone, '') AS zone",
			"COUNT(m.id) AS total",
		).
		From("beneficiaries b").
		LeftJoin(movementsTable+` m ON m.beneficiary_nif = b.nif
			AND m.direction = 'saida'
			AND m.occurred_at >= ?
			AND m.item_id IN (SELECT id FROM items WHERE category = ?)`, since, category).
		GroupBy("b.nif", "b.name", "b.zone").
		OrderBy("total ASC", "b.name ASC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build least-served query: %w", err)
	}

	var counts []ledger.ServedCount
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &counts, sql, args...); err != nil {
		return nil, fmt.Errorf("rank least served: %w", err)
	}
	return counts, nil
}

// ListByInstitution returns one institution's movements, newest first.
func (r *LedgerRepo) ListByInstitution(ctx context.Context, institutionID id.ID, filter ledger.MovementFilter) ([]ledger.Entry, error) {
	q := r.builder().
		Select(movementCols...).
		From(movementsTable).
		Where(squirrel.Eq{"institution_id": institutionID}).
		OrderBy("occurred_at DESC")

	if filter.Direction != nil {
		q = q.Where(squirrel.Eq{"direction": *filter.Direction})
	}
	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"occurred_at": *filter.ToDate})
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

	var rows []movementRow
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	entries := make([]ledger.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

// SummaryByInstitution aggregates one institution's movements per item:
// entry and exit totals plus a movement count since the given time.
func (r *LedgerRepo) SummaryByInstitution(ctx context.Context, institutionID id.ID, recentSince time.Time) ([]ledger.ItemStockSummary, error) {
	q := r.builder().
		Select(
			"i.id AS item_id", "i.name AS item_name", "i.unit AS item_unit",
			"COALESCE(i.category, '') AS item_category",
			"COALESCE(SUM(m.quantity) FILTER (WHERE m.direction = 'entrada'), 0) AS entries",
			"COALESCE(SUM(m.quantity) FILTER (WHERE m.direction = 'saida'), 0) AS exits",
		).
		Column("COUNT(m.id) FILTER (WHERE m.occurred_at >= ?) AS recent_count", recentSince).
		From(movementsTable+" m").
		Join("items i ON i.id = m.item_id").
		Where(squirrel.Eq{"m.institution_id": institutionID}).
		GroupBy("i.id", "i.name", "i.unit", "i.category").
		OrderBy("i.name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary query: %w", err)
	}

	var summaries []ledger.ItemStockSummary
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &summaries, sql, args...); err != nil {
		return nil, fmt.Errorf("institution stock summary: %w", err)
	}
	return summaries, nil
}

// GetByID returns a single movement.
func (r *LedgerRepo) GetByID(ctx context.Context, entryID id.ID) (*ledger.Entry, error) {
	q := r.builder().
		Select(movementCols...).
		From(movementsTable).
		Where(squirrel.Eq{"id": entryID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row movementRow
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("movement", entryID.String())
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}

	entry := row.toEntry()
	return &entry, nil
}

// OrphanByInstitution clears the attribution of all movements belonging
// to a removed institution. Rows are kept; only the reference is dropped.
func (r *LedgerRepo) OrphanByInstitution(ctx context.Context, institutionID id.ID) (int64, error) {
	q := r.builder().
		Update(movementsTable).
		Set("institution_id", nil).
		Where(squirrel.Eq{"institution_id": institutionID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build orphan update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("orphan movements: %w", err)
	}
	return result.RowsAffected(), nil
}
