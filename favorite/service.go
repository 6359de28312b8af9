package favorite

import "context"

// Service exposes the favorites ledger: a unique-pair membership set
// between users and properties with no further state.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add records the pair, failing with ErrDuplicate if it already exists.
func (s *Service) Add(ctx context.Context, userID, propertyID string) (Record, error) {
	return s.repo.Add(ctx, userID, propertyID)
}

// Remove deletes the pair, failing with ErrNotFound if absent.
func (s *Service) Remove(ctx context.Context, userID, propertyID string) error {
	return s.repo.Remove(ctx, userID, propertyID)
}

// List returns the user's favorites in insertion order.
func (s *Service) List(ctx context.Context, userID string) ([]Record, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Check reports whether the pair is a member of the set.
func (s *Service) Check(ctx context.Context, userID, propertyID string) (bool, error) {
	return s.repo.Exists(ctx, userID, propertyID)
}
