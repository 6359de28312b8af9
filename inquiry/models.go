package inquiry

import "time"

// Type classifies what the buyer is asking for.
type Type string

const (
	TypeInformation Type = "information"
	TypeViewing     Type = "viewing"
	TypeOffer       Type = "offer"
)

// ContactPreference is how the buyer wants to be reached.
type ContactPreference string

const (
	ContactEmail ContactPreference = "email"
	ContactPhone ContactPreference = "phone"
	ContactBoth  ContactPreference = "both"
)

// Inquiry mirrors the inquiries table. SellerID is the party currently
// assigned to handle the inquiry: an admin from creation onward, the
// original seller only after a forward. OriginalSellerID is captured from
// the property at creation and never changes.
type Inquiry struct {
	ID                string
	PropertyID        string
	BuyerID           string
	SellerID          string
	OriginalSellerID  string
	Message           string
	InquiryType       Type
	ContactPreference ContactPreference
	Status            Status
	AdminNote         *string
	ResponseMessage   *string
	ResponseDate      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PropertySummary is the slice of property data joined into read models.
type PropertySummary struct {
	ID    string
	Title string
	City  *string
}

// UserSummary is the slice of user data joined into read models.
type UserSummary struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Phone     *string
}

// Record is an inquiry enriched with the identities the API renders.
type Record struct {
	Inquiry
	Property       PropertySummary
	Buyer          UserSummary
	Seller         UserSummary
	OriginalSeller UserSummary
}

// Event is one entry of the append-only audit trail for an inquiry.
type Event struct {
	ID        int64
	InquiryID string
	Type      string
	ActorID   *string
	Payload   []byte
	CreatedAt time.Time
}

// Actor identifies the caller of an operation for authorization checks.
type Actor struct {
	ID   string
	Role string
}

const roleAdmin = "admin"

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == roleAdmin }

// CreateParams captures a buyer's new inquiry.
type CreateParams struct {
	BuyerID           string
	PropertyID        string
	Message           string
	InquiryType       Type
	ContactPreference ContactPreference
}

// TransitionParams captures an admin-initiated status change.
type TransitionParams struct {
	InquiryID       string
	NextStatus      Status
	Note            *string
	ResponseMessage *string
}
