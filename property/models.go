package property

import "time"

// Status is the moderation state of a listing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// PropertyType enumerates accepted dwelling kinds.
type PropertyType string

const (
	TypeApartment PropertyType = "apartment"
	TypeHouse     PropertyType = "house"
	TypeCondo     PropertyType = "condo"
	TypeVilla     PropertyType = "villa"
)

// TransactionType distinguishes sales from rentals.
type TransactionType string

const (
	TransactionSale TransactionType = "sale"
	TransactionRent TransactionType = "rent"
)

// Address is the nested location document stored as jsonb.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// Details is the nested specification document stored as jsonb.
type Details struct {
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	AreaSqft      float64 `json:"area_sqft"`
	YearBuilt     int     `json:"year_built"`
	LotSize       float64 `json:"lot_size"`
	ParkingSpaces int     `json:"parking_spaces"`
	HasGarage     bool    `json:"has_garage"`
}

// Image is one listing photo. URLs are relative paths the client resolves
// against the API host.
type Image struct {
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	IsPrimary bool      `json:"is_primary"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the slice of user identity joined into read models.
type UserSummary struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// Property mirrors the properties table.
type Property struct {
	ID              string
	Title           string
	Description     string
	PropertyType    PropertyType
	TransactionType TransactionType
	Price           int64
	Currency        string
	Status          Status
	Address         Address
	Details         Details
	Features        []string
	Amenities       []string
	Images          []Image
	SellerID        string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Seller   UserSummary
	Approver *UserSummary
}

// CreateParams is a validated new listing.
type CreateParams struct {
	SellerID        string
	SellerRole      string
	Title           string
	Description     string
	PropertyType    PropertyType
	TransactionType TransactionType
	Price           int64
	Currency        string
	Address         Address
	Details         Details
	Features        []string
	Amenities       []string
	Images          []Image
}

// Filters narrows the public listing query.
type Filters struct {
	Status          Status
	SellerID        string
	City            string
	PropertyType    PropertyType
	TransactionType TransactionType
	MinPrice        *int64
	MaxPrice        *int64
}
