package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/types"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
	"github.com/Edmilson-999/Sistema-stock-sv/pkg/logger"
)

const (
	// DefaultEquityWindowDays is the default rolling window.
	DefaultEquityWindowDays = 30

	rankedLimit = 10
)

// InstitutionReader resolves institutions for report headers.
type InstitutionReader interface {
	GetByID(ctx context.Context, institutionID id.ID) (*institution.Institution, error)
}

// Service generates reports and manages the monthly archive.
type Service struct {
	repo         Repository
	archive      ArchiveStore
	institutions InstitutionReader
	now          func() time.Time
}

// NewService creates a reporting service.
func NewService(repo Repository, archive ArchiveStore, institutions InstitutionReader) *Service {
	return &Service{
		repo:         repo,
		archive:      archive,
		institutions: institutions,
		now:          time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Equity builds the distribution equity report over a rolling window.
// A non-positive windowDays falls back to the default.
func (s *Service) Equity(ctx context.Context, windowDays int) (*EquityReport, error) {
	if windowDays <= 0 {
		windowDays = DefaultEquityWindowDays
	}

	to := s.now().UTC()
	from := to.AddDate(0, 0, -windowDays)

	total, err := s.repo.CountBeneficiaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("count beneficiaries: %w", err)
	}
	served, err := s.repo.CountServedSince(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("count served: %w", err)
	}
	byZone, err := s.repo.ExitsByZone(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("group by zone: %w", err)
	}
	top, err := s.repo.TopServed(ctx, from, rankedLimit)
	if err != nil {
		return nil, fmt.Errorf("rank top served: %w", err)
	}
	least, err := s.repo.LeastServed(ctx, from, rankedLimit)
	if err != nil {
		return nil, fmt.Errorf("rank least served: %w", err)
	}

	return &EquityReport{
		WindowDays:         windowDays,
		From:               from,
		To:                 to,
		TotalBeneficiaries: total,
		ServedCount:        served,
		CoveragePercent:    types.Percent(served, total),
		ByZone:             byZone,
		TopServed:          top,
		LeastServed:        least,
	}, nil
}

// GenerateMonthly builds one institution's report for a calendar month
// and stores it gzip-compressed in the archive.
func (s *Service) GenerateMonthly(ctx context.Context, institutionID id.ID, year, month int) (*MonthlyReport, error) {
	inst, err := s.institutions.GetByID(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	movements, aided, items, err := s.repo.MonthlyTotals(ctx, institutionID, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate month: %w", err)
	}

	report := &MonthlyReport{
		InstitutionID:      inst.ID.String(),
		InstitutionName:    inst.Name,
		Year:               year,
		Month:              month,
		GeneratedAt:        s.now().UTC(),
		MovementCount:      movements,
		BeneficiariesAided: aided,
		Items:              items,
	}

	compressed, err := compressReport(report)
	if err != nil {
		return nil, err
	}
	if err := s.archive.Put(ctx, institutionID, year, month, compressed); err != nil {
		return nil, fmt.Errorf("archive report: %w", err)
	}

	logger.Info(ctx, "monthly report archived",
		"institution", inst.Username, "year", year, "month", month,
		"movements", movements, "compressed_bytes", len(compressed))
	return report, nil
}

// GetMonthly retrieves an archived report, decompressing it.
func (s *Service) GetMonthly(ctx context.Context, institutionID id.ID, year, month int) (*MonthlyReport, error) {
	compressed, err := s.archive.Get(ctx, institutionID, year, month)
	if err != nil {
		return nil, err
	}
	return decompressReport(compressed)
}

// ListArchive lists an institution's archived reports, newest first.
func (s *Service) ListArchive(ctx context.Context, institutionID id.ID) ([]ArchiveEntry, error) {
	return s.archive.List(ctx, institutionID)
}

func compressReport(report *MonthlyReport) ([]byte, error) {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("init gzip: %w", err)
	}
	if err := json.NewEncoder(gz).Encode(report); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("flush gzip: %w", err)
	}
	return buf.Bytes(), nil
}

func decompressReport(compressed []byte) (*MonthlyReport, error) {
	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	var report MonthlyReport
	if err := json.NewDecoder(io.LimitReader(gz, 16<<20)).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
