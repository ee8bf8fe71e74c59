package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/domain/shamsi"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/ports"
)

// Dashboard window bounds, in days.
const (
	DefaultDashboardDays = 30
	MaxDashboardDays     = 365
	topPathsLimit        = 10
)

// AnalyticsService records visits and client errors and builds the admin dashboard
type AnalyticsService struct {
	analyticsRepo ports.AnalyticsRepository
	orderRepo     ports.OrderRepository
	productRepo   ports.ProductRepository
	usedPhoneRepo ports.UsedPhoneRepository
	logger        *logger.Logger
	now           func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	analyticsRepo ports.AnalyticsRepository,
	orderRepo ports.OrderRepository,
	productRepo ports.ProductRepository,
	usedPhoneRepo ports.UsedPhoneRepository,
	logger *logger.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		usedPhoneRepo: usedPhoneRepo,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *AnalyticsService) RecordVisit(ctx context.Context, req ports.VisitRequest, userAgent, ip string) error {
	visit := &entities.Visit{
		Path:      req.Path,
		Referrer:  req.Referrer,
		UserAgent: userAgent,
		IP:        ip,
		CreatedAt: s.now(),
	}
	return s.analyticsRepo.CreateVisit(ctx, visit)
}

func (s *AnalyticsService) RecordError(ctx context.Context, req ports.ErrorReportRequest, userAgent string) error {
	report := &entities.ErrorReport{
		Message:   req.Message,
		Stack:     req.Stack,
		Path:      req.Path,
		UserAgent: userAgent,
	}
	if err := s.analyticsRepo.CreateErrorReport(ctx, report); err != nil {
		return err
	}

	s.logger.Warnw("Client error reported", "error_id", report.ID, "path", report.Path, "message", report.Message)
	return nil
}

func (s *AnalyticsService) ListErrors(ctx context.Context, limit, offset int) ([]*entities.ErrorReport, int, error) {
	reports, err := s.analyticsRepo.ListErrorReports(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.analyticsRepo.CountErrorReports(ctx)
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// Dashboard summarises the last days Shamsi calendar days, today included,
// as observed in Tehran. Out of range values fall back to the default or
// are capped.
func (s *AnalyticsService) Dashboard(ctx context.Context, days int) (*ports.Dashboard, error) {
	if days <= 0 {
		days = DefaultDashboardDays
	}
	if days > MaxDashboardDays {
		days = MaxDashboardDays
	}

	now := s.now().In(shamsi.Tehran)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, shamsi.Tehran)
	since := todayStart.AddDate(0, 0, -(days - 1))

	times, err := s.analyticsRepo.VisitTimes(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load visits: %w", err)
	}

	totalVisits, err := s.analyticsRepo.CountVisits(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}

	perDay := make(map[string]int, days)
	for _, t := range times {
		perDay[shamsi.InTehran(t).String()]++
	}

	visitsPerDay := make([]ports.DailyVisits, 0, days)
	for i := 0; i < days; i++ {
		day := shamsi.InTehran(since.AddDate(0, 0, i)).String()
		visitsPerDay = append(visitsPerDay, ports.DailyVisits{Date: day, Count: perDay[day]})
	}

	topPaths, err := s.analyticsRepo.TopPaths(ctx, since, topPathsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top paths: %w", err)
	}

	ordersByStatus, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	productCount, err := s.productRepo.Count(ctx, ports.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	usedPhoneCount, err := s.usedPhoneRepo.Count(ctx, ports.UsedPhoneFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count used phones: %w", err)
	}

	errorCount, err := s.analyticsRepo.CountErrorReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count error reports: %w", err)
	}

	return &ports.Dashboard{
		Days:           days,
		TotalVisits:    totalVisits,
		VisitsPerDay:   visitsPerDay,
		TopPaths:       topPaths,
		OrdersByStatus: ordersByStatus,
		ProductCount:   productCount,
		UsedPhoneCount: usedPhoneCount,
		ErrorCount:     errorCount,
		GeneratedAt:    s.now().UTC(),
	}, nil
}
