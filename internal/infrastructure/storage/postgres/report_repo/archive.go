package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/reports"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/infrastructure/storage/postgres"
)

const archiveTable = "report_archive"

var _ reports.ArchiveStore = (*ArchiveRepo)(nil)

// ArchiveRepo stores gzip-compressed monthly reports in Postgres.
type ArchiveRepo struct {
	tm *postgres.TxManager
}

// NewArchiveRepo creates a new archive repository.
func NewArchiveRepo(tm *postgres.TxManager) *ArchiveRepo {
	return &ArchiveRepo{tm: tm}
}

func (r *ArchiveRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Put upserts the compressed report for one institution and month.
func (r *ArchiveRepo) Put(ctx context.Context, institutionID id.ID, year, month int, compressed []byte) error {
	q := r.builder().
		Insert(archiveTable).
		Columns("institution_id", "year", "month", "payload", "size_bytes", "stored_at").
		Values(institutionID, year, month, compressed, len(compressed), time.Now().UTC()).
		Suffix(`ON CONFLICT (institution_id, year, month)
			DO UPDATE SET payload = EXCLUDED.payload,
			              size_bytes = EXCLUDED.size_bytes,
			              stored_at = EXCLUDED.stored_at`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build archive upsert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("store report archive: %w", err)
	}
	return nil
}

// Get returns the compressed blob for one institution and month.
func (r *ArchiveRepo) Get(ctx context.Context, institutionID id.ID, year, month int) ([]byte, error) {
	q := r.builder().
		Select("payload").
		From(archiveTable).
		Where(squirrel.Eq{"institution_id": institutionID, "year": year, "month": month}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build archive query: %w", err)
	}

	var payload []byte
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &payload, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("monthly report", fmt.Sprintf("%d-%02d", year, month))
		}
		return nil, fmt.Errorf("load report archive: %w", err)
	}
	return payload, nil
}

// List returns archive entries for one institution, newest first.
func (r *ArchiveRepo) List(ctx context.Context, institutionID id.ID) ([]reports.ArchiveEntry, error) {
	q := r.builder().
		Select("institution_id", "year", "month", "size_bytes", "stored_at").
		From(archiveTable).
		Where(squirrel.Eq{"institution_id": institutionID}).
		OrderBy("year DESC", "month DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build archive list: %w", err)
	}

	var entries []reports.ArchiveEntry
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list report archive: %w", err)
	}
	return entries, nil
}
