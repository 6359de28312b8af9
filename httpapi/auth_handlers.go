package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realtyflow/auth"
)

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, newUserView(*user))
}

func (h HandlerSet) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		// The original API reports bad credentials as a 400, not a 401.
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"token": result.Token,
		"user":  newUserView(result.User),
	})
}

func (h HandlerSet) Profile(c *gin.Context) {
	userID, _ := currentUser(c)

	user, err := h.auth.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newUserView(*user))
}
