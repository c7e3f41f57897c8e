package services

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"brewery/internal/models"
	"brewery/internal/repositories"

	"github.com/rs/zerolog"
)

var (
	// ErrBeerNotFound reports that the lookup, update or delete target does not exist.
	ErrBeerNotFound = repositories.ErrBeerNotFound
	// ErrDuplicateUPC reports that a write would break UPC uniqueness.
	ErrDuplicateUPC = repositories.ErrDuplicateUPC
)

// Routing keys of the beer lifecycle events.
const (
	EventBeerCreated = "beer.created"
	EventBeerUpdated = "beer.updated"
	EventBeerDeleted = "beer.deleted"
)

// ListQuery carries the paging and filter arguments of a listing.
type ListQuery struct {
	PageNumber          int
	PageSize            int
	BeerName            string
	BeerStyle           models.BeerStyle
	ShowInventoryOnHand bool
}

// BeerService is the data service consumed by the HTTP handlers.
// Every method honours ctx cancellation.
type BeerService interface {
	GetByID(ctx context.Context, id uint, showInventory bool) (*models.BeerDto, error)
	GetByUPC(ctx context.Context, upc string) (*models.BeerDto, error)
	ListBeers(ctx context.Context, query ListQuery) (*models.BeerPagedList, error)
	SaveNewBeer(ctx context.Context, draft models.BeerDto) (*models.BeerDto, error)
	UpdateBeer(ctx context.Context, id uint, draft models.BeerDto) (*models.BeerDto, error)
	DeleteBeerByID(ctx context.Context, id uint) error
}

// EventPublisher delivers beer lifecycle events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// BeerEvent is the payload published after each successful mutation.
type BeerEvent struct {
	Type       string    `json:"type"`
	BeerID     uint      `json:"beerId"`
	UPC        string    `json:"upc,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BeerServiceImpl handles business logic related to beers.
type BeerServiceImpl struct {
	repo      repositories.BeerRepository
	publisher EventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// Option customises a BeerServiceImpl.
type Option func(*BeerServiceImpl)

// WithPublisher makes the service publish lifecycle events.
func WithPublisher(p EventPublisher) Option {
	return func(s *BeerServiceImpl) { s.publisher = p }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *BeerServiceImpl) { s.log = log }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *BeerServiceImpl) { s.now = now }
}

// NewBeerService creates a new BeerServiceImpl.
func NewBeerService(repo repositories.BeerRepository, opts ...Option) *BeerServiceImpl {
	s := &BeerServiceImpl{
		repo: repo,
		log:  zerolog.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetByID retrieves a beer, exposing its inventory only when asked.
func (s *BeerServiceImpl) GetByID(ctx context.Context, id uint, showInventory bool) (*models.BeerDto, error) {
	beer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := beer.ToDto(showInventory)
	return &dto, nil
}

// GetByUPC retrieves a beer by its product code.
func (s *BeerServiceImpl) GetByUPC(ctx context.Context, upc string) (*models.BeerDto, error) {
	beer, err := s.repo.GetByUPC(ctx, upc)
	if err != nil {
		return nil, err
	}
	dto := beer.ToDto(false)
	return &dto, nil
}

// ListBeers returns one page of beers. The caller is expected to pass a positive page size.
func (s *BeerServiceImpl) ListBeers(ctx context.Context, query ListQuery) (*models.BeerPagedList, error) {
	filter := repositories.BeerFilter{BeerName: query.BeerName, BeerStyle: query.BeerStyle}
	beers, total, err := s.repo.List(ctx, filter, pageOffset(query.PageNumber, query.PageSize), query.PageSize)
	if err != nil {
		return nil, err
	}

	content := make([]models.BeerDto, 0, len(beers))
	for i := range beers {
		content = append(content, beers[i].ToDto(query.ShowInventoryOnHand))
	}
	page := models.NewPage(content, query.PageNumber, query.PageSize, total)
	return &page, nil
}

// pageOffset returns the row offset of a page. A page too far out to address saturates
// at math.MaxInt, which lies past the end of any store.
func pageOffset(pageNumber, pageSize int) int {
	if pageNumber <= 0 || pageSize <= 0 {
		return 0
	}
	if pageNumber > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return pageNumber * pageSize
}

// SaveNewBeer stores a validated draft, assigning identifier and timestamps.
func (s *BeerServiceImpl) SaveNewBeer(ctx context.Context, draft models.BeerDto) (*models.BeerDto, error) {
	now := s.now().UTC()
	beer := models.Beer{CreatedDate: now, LastModifiedDate: now}
	draft.ApplyTo(&beer)

	if err := s.repo.Create(ctx, &beer); err != nil {
		return nil, err
	}
	s.publish(EventBeerCreated, beer.ID, beer.UPC)

	dto := beer.ToDto(true)
	return &dto, nil
}

// UpdateBeer replaces the mutable fields of an existing beer.
func (s *BeerServiceImpl) UpdateBeer(ctx context.Context, id uint, draft models.BeerDto) (*models.BeerDto, error) {
	now := s.now().UTC()
	beer, err := s.repo.Update(ctx, id, func(b *models.Beer) {
		draft.ApplyTo(b)
		if now.After(b.LastModifiedDate) {
			b.LastModifiedDate = now
		}
	})
	if err != nil {
		return nil, err
	}
	s.publish(EventBeerUpdated, beer.ID, beer.UPC)

	dto := beer.ToDto(true)
	return &dto, nil
}

// DeleteBeerByID removes a beer. Deleting an absent id yields ErrBeerNotFound.
func (s *BeerServiceImpl) DeleteBeerByID(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(EventBeerDeleted, id, "")
	return nil
}

// publish never fails the mutation it reports on.
func (s *BeerServiceImpl) publish(eventType string, id uint, upc string) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(BeerEvent{Type: eventType, BeerID: id, UPC: upc, OccurredAt: s.now().UTC()})
	if err != nil {
		s.log.Error().Err(err).Str("event", eventType).Msg("failed to marshal beer event")
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Uint("beer_id", id).Msg("failed to publish beer event")
		return
	}
	s.log.Debug().Str("event", eventType).Uint("beer_id", id).Msg("published beer event")
}
