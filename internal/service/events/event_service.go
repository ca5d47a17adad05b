package events

import (
	"context"

	"github.com/evgall/ticketline/internal/domain"
	"github.com/evgall/ticketline/internal/repository"
)

type EventUseCase interface {
	List(ctx context.Context) ([]domain.Event, error)
}

// Cache is the listing cache, read before the store and refreshed after.
type Cache interface {
	GetEvents(ctx context.Context) ([]domain.Event, error)
	SetEvents(ctx context.Context, events []domain.Event) error
}

type EventService struct {
	repo  repository.EventRepository
	cache Cache
}

func NewEventService(repo repository.EventRepository, cache Cache) *EventService {
	return &EventService{repo: repo, cache: cache}
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetEvents(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetEvents(ctx, events)
	}
	return events, nil
}

var _ EventUseCase = (*EventService)(nil)
