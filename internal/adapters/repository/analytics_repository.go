package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/ports"
)

// AnalyticsRepositoryImpl implements the AnalyticsRepository interface
type AnalyticsRepositoryImpl struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *sqlx.DB) ports.AnalyticsRepository {
	return &AnalyticsRepositoryImpl{db: db}
}

func (r *AnalyticsRepositoryImpl) CreateVisit(ctx context.Context, visit *entities.Visit) error {
	query := r.db.Rebind(`
		INSERT INTO visits (id, path, referrer, user_agent, ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	if visit.ID == uuid.Nil {
		visit.ID = uuid.New()
	}
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now()
	}
	visit.CreatedAt = visit.CreatedAt.UTC()

	_, err := r.db.ExecContext(ctx, query,
		visit.ID, visit.Path, visit.Referrer, visit.UserAgent, visit.IP, visit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create visit: %w", err)
	}

	return nil
}

func (r *AnalyticsRepositoryImpl) CountVisits(ctx context.Context, since time.Time) (int, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM visits WHERE created_at >= ?`)

	var count int
	if err := r.db.GetContext(ctx, &count, query, since.UTC()); err != nil {
		return 0, fmt.Errorf("count visits: %w", err)
	}

	return count, nil
}

// VisitTimes returns the timestamps of every visit since the given instant.
// Grouping by day is left to the caller since day boundaries follow the
// Shamsi calendar.
func (r *AnalyticsRepositoryImpl) VisitTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	query := r.db.Rebind(`SELECT created_at FROM visits WHERE created_at >= ? ORDER BY created_at`)

	times := []time.Time{}
	if err := r.db.SelectContext(ctx, &times, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("list visit times: %w", err)
	}

	return times, nil
}

func (r *AnalyticsRepositoryImpl) TopPaths(ctx context.Context, since time.Time, limit int) ([]ports.PathCount, error) {
	query := r.db.Rebind(`
		SELECT path, COUNT(*) AS count
		FROM visits
		WHERE created_at >= ?
		GROUP BY path
		ORDER BY count DESC, path
		LIMIT ?`)

	paths := []ports.PathCount{}
	if err := r.db.SelectContext(ctx, &paths, query, since.UTC(), limit); err != nil {
		return nil, fmt.Errorf("top paths: %w", err)
	}

	return paths, nil
}

func (r *AnalyticsRepositoryImpl) CreateErrorReport(ctx context.Context, report *entities.ErrorReport) error {
	query := r.db.Rebind(`
		INSERT INTO error_reports (id, message, stack, path, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.Message, report.Stack, report.Path, report.UserAgent, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create error report: %w", err)
	}

	return nil
}

func (r *AnalyticsRepositoryImpl) ListErrorReports(ctx context.Context, limit, offset int) ([]*entities.ErrorReport, error) {
	query, args := paginate(`
		SELECT id, message, stack, path, user_agent, created_at
		FROM error_reports
		ORDER BY created_at DESC, id`, nil, limit, offset)

	reports := []*entities.ErrorReport{}
	if err := r.db.SelectContext(ctx, &reports, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list error reports: %w", err)
	}

	return reports, nil
}

func (r *AnalyticsRepositoryImpl) CountErrorReports(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM error_reports`); err != nil {
		return 0, fmt.Errorf("count error reports: %w", err)
	}

	return count, nil
}
