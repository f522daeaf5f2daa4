package service

import (
	"context"

	"github.com/fieldworks/diary-service/internal/model"
)

// RosterService exposes the engineer roster read side.
type RosterService struct {
	engineers EngineerStore
}

func NewRosterService(engineers EngineerStore) *RosterService {
	return &RosterService{engineers: engineers}
}

func (s *RosterService) List(ctx context.Context) ([]*model.Engineer, error) {
	return s.engineers.ListRoster(ctx)
}

func (s *RosterService) GetByID(ctx context.Context, id int64) (*model.Engineer, error) {
	return s.engineers.GetByID(ctx, id)
}
