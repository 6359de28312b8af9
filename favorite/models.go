package favorite

import "time"

// Favorite is one (user, property) membership pair.
type Favorite struct {
	ID         string
	UserID     string
	PropertyID string
	CreatedAt  time.Time
}

// PropertySummary is the property slice rendered alongside a favorite.
type PropertySummary struct {
	ID     string
	Title  string
	Price  int64
	Status string
	City   *string
}

// Record is a favorite enriched with its property for display.
type Record struct {
	Favorite
	Property PropertySummary
}
