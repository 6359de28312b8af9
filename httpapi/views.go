package httpapi

import (
	"encoding/json"
	"time"

	"realtyflow/auth"
	"realtyflow/favorite"
	"realtyflow/inquiry"
	"realtyflow/property"
)

// View types decouple the wire format from the domain models.

type profileView struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone_number,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type userView struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	Profile     profileView `json:"profile"`
	IsVerified  bool        `json:"is_verified"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func newUserView(u auth.User) userView {
	return userView{
		ID:    u.ID,
		Email: u.Email,
		Role:  string(u.Role),
		Profile: profileView{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Phone:     u.Phone,
			AvatarURL: u.AvatarURL,
		},
		IsVerified:  u.IsVerified,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

type partySummaryView struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone_number,omitempty"`
}

type propertyView struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	PropertyType    string            `json:"property_type"`
	TransactionType string            `json:"transaction_type"`
	Price           int64             `json:"price"`
	Currency        string            `json:"currency"`
	Status          string            `json:"status"`
	Address         property.Address  `json:"address"`
	Details         property.Details  `json:"details"`
	Features        []string          `json:"features"`
	Amenities       []string          `json:"amenities"`
	Images          []property.Image  `json:"images"`
	SellerID        string            `json:"seller_id"`
	Seller          partySummaryView  `json:"seller"`
	ApprovedBy      *string           `json:"approved_by,omitempty"`
	Approver        *partySummaryView `json:"approver,omitempty"`
	ApprovedAt      *time.Time        `json:"approved_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func newPropertyView(p property.Property) propertyView {
	view := propertyView{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		PropertyType:    string(p.PropertyType),
		TransactionType: string(p.TransactionType),
		Price:           p.Price,
		Currency:        p.Currency,
		Status:          string(p.Status),
		Address:         p.Address,
		Details:         p.Details,
		Features:        p.Features,
		Amenities:       p.Amenities,
		Images:          p.Images,
		SellerID:        p.SellerID,
		Seller: partySummaryView{
			ID:        p.Seller.ID,
			Email:     p.Seller.Email,
			FirstName: p.Seller.FirstName,
			LastName:  p.Seller.LastName,
		},
		ApprovedBy: p.ApprovedBy,
		ApprovedAt: p.ApprovedAt,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Approver != nil {
		view.Approver = &partySummaryView{
			ID:        p.Approver.ID,
			Email:     p.Approver.Email,
			FirstName: p.Approver.FirstName,
			LastName:  p.Approver.LastName,
		}
	}
	return view
}

func newPropertyViews(properties []property.Property) []propertyView {
	views := make([]propertyView, 0, len(properties))
	for _, p := range properties {
		views = append(views, newPropertyView(p))
	}
	return views
}

type inquiryPropertyView struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	City  *string `json:"city,omitempty"`
}

type inquiryView struct {
	ID                string              `json:"id"`
	PropertyID        string              `json:"property_id"`
	Property          inquiryPropertyView `json:"property"`
	BuyerID           string              `json:"buyer_id"`
	Buyer             partySummaryView    `json:"buyer"`
	SellerID          string              `json:"seller_id"`
	Seller            partySummaryView    `json:"seller"`
	OriginalSellerID  string              `json:"original_seller_id"`
	OriginalSeller    partySummaryView    `json:"original_seller"`
	Message           string              `json:"message"`
	InquiryType       string              `json:"inquiry_type"`
	ContactPreference string              `json:"contact_preference"`
	Status            string              `json:"status"`
	AdminNote         *string             `json:"admin_note,omitempty"`
	ResponseMessage   *string             `json:"response_message,omitempty"`
	ResponseDate      *time.Time          `json:"response_date,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func newPartyView(u inquiry.UserSummary) partySummaryView {
	return partySummaryView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

func newInquiryView(rec inquiry.Record) inquiryView {
	return inquiryView{
		ID:         rec.ID,
		PropertyID: rec.PropertyID,
		Property: inquiryPropertyView{
			ID:    rec.Property.ID,
			Title: rec.Property.Title,
			City:  rec.Property.City,
		},
		BuyerID:           rec.BuyerID,
		Buyer:             newPartyView(rec.Buyer),
		SellerID:          rec.SellerID,
		Seller:            newPartyView(rec.Seller),
		OriginalSellerID:  rec.OriginalSellerID,
		OriginalSeller:    newPartyView(rec.OriginalSeller),
		Message:           rec.Message,
		InquiryType:       string(rec.InquiryType),
		ContactPreference: string(rec.ContactPreference),
		Status:            string(rec.Status),
		AdminNote:         rec.AdminNote,
		ResponseMessage:   rec.ResponseMessage,
		ResponseDate:      rec.ResponseDate,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}

func newInquiryViews(records []inquiry.Record) []inquiryView {
	views := make([]inquiryView, 0, len(records))
	for _, rec := range records {
		views = append(views, newInquiryView(rec))
	}
	return views
}

type eventView struct {
	ID        int64           `json:"id"`
	InquiryID string          `json:"inquiry_id"`
	Type      string          `json:"type"`
	ActorID   *string         `json:"actor_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func newEventViews(events []inquiry.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		payload := json.RawMessage(e.Payload)
		if len(payload) == 0 {
			payload = json.RawMessage("{}")
		}
		views = append(views, eventView{
			ID:        e.ID,
			InquiryID: e.InquiryID,
			Type:      e.Type,
			ActorID:   e.ActorID,
			Payload:   payload,
			CreatedAt: e.CreatedAt,
		})
	}
	return views
}

type favoritePropertyView struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Price  int64   `json:"price"`
	Status string  `json:"status"`
	City   *string `json:"city,omitempty"`
}

type favoriteView struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	PropertyID string               `json:"property_id"`
	Property   favoritePropertyView `json:"property"`
	CreatedAt  time.Time            `json:"created_at"`
}

func newFavoriteView(rec favorite.Record) favoriteView {
	return favoriteView{
		ID:         rec.ID,
		UserID:     rec.UserID,
		PropertyID: rec.PropertyID,
		Property: favoritePropertyView{
			ID:     rec.Property.ID,
			Title:  rec.Property.Title,
			Price:  rec.Property.Price,
			Status: rec.Property.Status,
			City:   rec.Property.City,
		},
		CreatedAt: rec.CreatedAt,
	}
}
