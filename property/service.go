package property

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound signals the property does not exist.
	ErrNotFound = errors.New("property: not found")
	// ErrForbidden signals the actor's role does not allow the operation.
	ErrForbidden = errors.New("property: access denied")
	// ErrInvalidStatus signals a moderation target outside the closed enum.
	ErrInvalidStatus = errors.New("property: invalid status")
)

// ListCache caches filtered listing queries. Implementations must be safe
// for concurrent use; a nil cache disables caching.
type ListCache interface {
	Get(ctx context.Context, filters Filters) ([]Property, bool)
	Set(ctx context.Context, filters Filters, properties []Property)
	Invalidate(ctx context.Context)
}

// Service exposes business-level property registry operations.
type Service struct {
	repo  Repository
	cache ListCache
	now   func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// WithCache attaches a listing cache.
func (s *Service) WithCache(c ListCache) *Service {
	s.cache = c
	return s
}

// WithClock overrides the time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create registers a new listing awaiting moderation. Only sellers may
// list; the new property always starts pending.
func (s *Service) Create(ctx context.Context, params CreateParams) (Property, error) {
	if params.SellerRole != "seller" {
		return Property{}, ErrForbidden
	}
	if params.SellerID == "" {
		return Property{}, fmt.Errorf("property: missing seller id")
	}
	if params.Title == "" {
		return Property{}, fmt.Errorf("property: title is required")
	}
	if params.Price <= 0 {
		return Property{}, fmt.Errorf("property: invalid price")
	}
	if !isValidPropertyType(params.PropertyType) {
		return Property{}, fmt.Errorf("property: invalid property type %q", params.PropertyType)
	}
	if !isValidTransactionType(params.TransactionType) {
		return Property{}, fmt.Errorf("property: invalid transaction type %q", params.TransactionType)
	}
	if params.Currency == "" {
		params.Currency = "USD"
	}
	if params.Address.Country == "" {
		params.Address.Country = "USA"
	}
	for i := range params.Images {
		if params.Images[i].CreatedAt.IsZero() {
			params.Images[i].CreatedAt = s.now().UTC()
		}
	}

	created, err := s.repo.Create(ctx, params)
	if err != nil {
		return Property{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return created, nil
}

// Get returns a single property with seller and approver identity.
func (s *Service) Get(ctx context.Context, propertyID string) (Property, error) {
	return s.repo.GetByID(ctx, propertyID)
}

// List returns properties matching the filters, newest first. Results are
// served from cache when an identical filter set was queried since the
// last write.
func (s *Service) List(ctx context.Context, filters Filters) ([]Property, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, filters); ok {
			return cached, nil
		}
	}

	properties, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, filters, properties)
	}
	return properties, nil
}

// UpdateStatus applies an admin moderation decision. Approval metadata is
// stamped for rejections too: it records who decided and when.
func (s *Service) UpdateStatus(ctx context.Context, actorID, actorRole, propertyID string, status Status) (Property, error) {
	if actorRole != "admin" {
		return Property{}, ErrForbidden
	}
	if status != StatusApproved && status != StatusRejected {
		return Property{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, propertyID, status, actorID, s.now().UTC())
	if err != nil {
		return Property{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return updated, nil
}

func isValidPropertyType(t PropertyType) bool {
	switch t {
	case TypeApartment, TypeHouse, TypeCondo, TypeVilla:
		return true
	default:
		return false
	}
}

func isValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionSale, TransactionRent:
		return true
	default:
		return false
	}
}
