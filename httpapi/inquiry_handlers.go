package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"realtyflow/inquiry"
)

func actorFrom(c *gin.Context) inquiry.Actor {
	userID, role := currentUser(c)
	return inquiry.Actor{ID: userID, Role: role}
}

// noteField resolves the admin note from a request body. Clients send it as
// "note"; "admin_note" is accepted as an alias of the stored column name.
func noteField(note, adminNote *string) *string {
	if note != nil {
		return note
	}
	return adminNote
}

func (h HandlerSet) CreateInquiry(c *gin.Context) {
	userID, _ := currentUser(c)

	var req struct {
		PropertyID        string `json:"property_id"`
		Message           string `json:"message"`
		InquiryType       string `json:"inquiry_type"`
		ContactPreference string `json:"contact_preference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.inquiries.Create(c.Request.Context(), inquiry.CreateParams{
		BuyerID:           userID,
		PropertyID:        req.PropertyID,
		Message:           req.Message,
		InquiryType:       inquiry.Type(req.InquiryType),
		ContactPreference: inquiry.ContactPreference(req.ContactPreference),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, newInquiryView(rec))
}

func (h HandlerSet) MyInquiries(c *gin.Context) {
	userID, _ := currentUser(c)

	records, err := h.inquiries.ListForBuyer(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newInquiryViews(records))
}

func (h HandlerSet) AdminInquiries(c *gin.Context) {
	records, err := h.inquiries.ListForAdmin(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newInquiryViews(records))
}

func (h HandlerSet) SellerInquiries(c *gin.Context) {
	userID, role := currentUser(c)
	if role != "seller" {
		respondError(c, http.StatusForbidden, "Access denied")
		return
	}

	records, err := h.inquiries.ListForSeller(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newInquiryViews(records))
}

func (h HandlerSet) UpdateInquiryStatus(c *gin.Context) {
	var req struct {
		Status          string  `json:"status"`
		Note            *string `json:"note"`
		AdminNote       *string `json:"admin_note"`
		ResponseMessage *string `json:"response_message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.inquiries.TransitionStatus(c.Request.Context(), actorFrom(c), inquiry.TransitionParams{
		InquiryID:       c.Param("id"),
		NextStatus:      inquiry.Status(req.Status),
		Note:            noteField(req.Note, req.AdminNote),
		ResponseMessage: req.ResponseMessage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newInquiryView(rec))
}

func (h HandlerSet) RespondInquiry(c *gin.Context) {
	var req struct {
		ResponseMessage string  `json:"response_message"`
		Note            *string `json:"note"`
		AdminNote       *string `json:"admin_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.inquiries.Respond(c.Request.Context(), actorFrom(c), c.Param("id"), req.ResponseMessage, noteField(req.Note, req.AdminNote))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newInquiryView(rec))
}

func (h HandlerSet) UpdateInquiryNote(c *gin.Context) {
	var req struct {
		Note      string `json:"note"`
		AdminNote string `json:"admin_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	note := req.Note
	if note == "" {
		note = req.AdminNote
	}
	if strings.TrimSpace(note) == "" {
		respondError(c, http.StatusBadRequest, "note is required")
		return
	}

	rec, err := h.inquiries.AddNote(c.Request.Context(), actorFrom(c), c.Param("id"), note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newInquiryView(rec))
}

func (h HandlerSet) InquiryEvents(c *gin.Context) {
	events, err := h.inquiries.Events(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newEventViews(events))
}

func (h HandlerSet) GetInquiry(c *gin.Context) {
	rec, err := h.inquiries.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newInquiryView(rec))
}
