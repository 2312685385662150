package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/clothing-store/internal/model"
	"github.com/iliyamo/clothing-store/internal/repository"
)

// StatsService reports sales aggregates.  Callers gate it behind
// RequireAdmin.
type StatsService struct {
	stats *repository.StatsRepo
}

func NewStatsService(stats *repository.StatsRepo) *StatsService {
	return &StatsService{stats: stats}
}

// ProductStats lists units sold and revenue per product, highest revenue
// first.  No sales yields an empty slice.
func (s *StatsService) ProductStats(ctx context.Context) ([]model.ProductStat, error) {
	out, err := s.stats.ProductStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}
	return out, nil
}

// UserStats lists order count and spend per customer, biggest spender
// first.
func (s *StatsService) UserStats(ctx context.Context) ([]model.CustomerStat, error) {
	out, err := s.stats.CustomerStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return out, nil
}
