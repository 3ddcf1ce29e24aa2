// Package api provides the HTTP API and service layer for missionlog.
package api

import (
	"context"

	"github.com/fentz26/missionlog/internal/models"
	"github.com/fentz26/missionlog/internal/query"
	"github.com/fentz26/missionlog/internal/store"
)

// Service answers history queries from the store.
type Service struct {
	store *store.Store
}

// NewService creates a new history service.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Query fetches every result for p.OwnerID and evaluates p over them.
func (s *Service) Query(ctx context.Context, p query.Params) (query.View, error) {
	records, err := s.store.FetchResults(ctx, p.OwnerID)
	if err != nil {
		return query.View{}, err
	}
	return query.Evaluate(records, p), nil
}

// GetResult retrieves a result by ID.
func (s *Service) GetResult(ctx context.Context, id string) (*models.MissionResult, error) {
	return s.store.GetResult(ctx, id)
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
