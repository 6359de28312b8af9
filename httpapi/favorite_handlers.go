package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListFavorites returns the favorited properties themselves, not the
// membership rows.
func (h HandlerSet) ListFavorites(c *gin.Context) {
	userID, _ := currentUser(c)

	records, err := h.favorites.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	properties := make([]favoritePropertyView, 0, len(records))
	for _, rec := range records {
		properties = append(properties, newFavoriteView(rec).Property)
	}
	respondData(c, http.StatusOK, properties)
}

func (h HandlerSet) AddFavorite(c *gin.Context) {
	userID, _ := currentUser(c)

	var req struct {
		PropertyID string `json:"property_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PropertyID == "" {
		respondError(c, http.StatusBadRequest, "property_id is required")
		return
	}

	rec, err := h.favorites.Add(c.Request.Context(), userID, req.PropertyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, newFavoriteView(rec))
}

func (h HandlerSet) RemoveFavorite(c *gin.Context) {
	userID, _ := currentUser(c)

	if err := h.favorites.Remove(c.Request.Context(), userID, c.Param("propertyId")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"removed": true})
}

func (h HandlerSet) CheckFavorite(c *gin.Context) {
	userID, _ := currentUser(c)

	isFavorited, err := h.favorites.Check(c.Request.Context(), userID, c.Param("propertyId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The favorited flag rides at the top level of the envelope, not under
	// data.
	c.JSON(http.StatusOK, gin.H{"success": true, "isFavorited": isFavorited})
}
