package history

import (
	"context"

	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/Domenick1991/thsrbook/pkg/metrics"
)

// DefaultListLimit caps how many reservations List returns.
const DefaultListLimit = 100

type HistoryUseCase interface {
	List(ctx context.Context) ([]domain.Reservation, error)
	Get(ctx context.Context, ticketID string) (*domain.Reservation, error)
	Record(ctx context.Context, reservation *domain.Reservation) error
}

type Repository interface {
	Save(ctx context.Context, reservation *domain.Reservation) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Reservation, error)
	List(ctx context.Context, limit int) ([]domain.Reservation, error)
}

type Cache interface {
	GetReservations(ctx context.Context) ([]domain.Reservation, error)
	SetReservations(ctx context.Context, reservations []domain.Reservation) error
	InvalidateReservations(ctx context.Context) error
}

type HistoryService struct {
	repo    Repository
	cache   Cache
	metrics *metrics.Metrics
}

// NewHistoryService builds the service. cache and m may be nil.
func NewHistoryService(repo Repository, cache Cache, m *metrics.Metrics) *HistoryService {
	return &HistoryService{repo: repo, cache: cache, metrics: m}
}

func (s *HistoryService) List(ctx context.Context) ([]domain.Reservation, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetReservations(ctx); err == nil && cached != nil {
			s.countCache("hit")
			return cached, nil
		}
		s.countCache("miss")
	}

	reservations, err := s.repo.List(ctx, DefaultListLimit)
	if err != nil {
		return nil, err
	}
	if reservations == nil {
		reservations = []domain.Reservation{}
	}
	if s.cache != nil {
		_ = s.cache.SetReservations(ctx, reservations)
	}
	return reservations, nil
}

func (s *HistoryService) Get(ctx context.Context, ticketID string) (*domain.Reservation, error) {
	return s.repo.GetByTicketID(ctx, ticketID)
}

// Record stores the reservation and drops the cached list.
func (s *HistoryService) Record(ctx context.Context, reservation *domain.Reservation) error {
	if err := s.repo.Save(ctx, reservation); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateReservations(ctx)
	}
	return nil
}

func (s *HistoryService) countCache(result string) {
	if s.metrics != nil {
		s.metrics.HistoryCacheRequests.WithLabelValues(result).Inc()
	}
}

var _ HistoryUseCase = (*HistoryService)(nil)
