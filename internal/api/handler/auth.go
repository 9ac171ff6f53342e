package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAnonID issues a fresh stable id and a token carrying it.
func (h *Handler) GetAnonID(c *gin.Context) {
	anonID, token, err := h.Identity.NewAnonID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "anon_id": anonID})
}
