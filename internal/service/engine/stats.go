package engine

import (
	"context"

	"github.com/goodnatureofminers/digzone-backend/internal/stats"
)

// Stats computes the summary and distribution from one snapshot.
func (s *Service) Stats(ctx context.Context) (stats.Report, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return stats.Report{}, err
	}
	return stats.NewReport(doc.Grid), nil
}

// TopMiners returns the leading miners. limit <= 0 selects the default; it is capped.
func (s *Service) TopMiners(ctx context.Context, limit int) ([]stats.Miner, error) {
	if limit <= 0 {
		limit = defaultTopMiners
	}
	if limit > maxTopMiners {
		limit = maxTopMiners
	}
	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}
	return stats.TopMiners(doc, limit), nil
}

// UserStats summarizes one identity against today's quota.
func (s *Service) UserStats(ctx context.Context, identity string) (stats.UserSummary, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return stats.UserSummary{}, err
	}
	return stats.ForUser(doc.Grid, identity, s.now(), s.quota.limit), nil
}
