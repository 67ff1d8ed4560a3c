package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type connectRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
}

func (h *handlers) connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "walletAddress is required")
		return
	}
	issued, err := h.deps.Sessions.Connect(c.Request.Context(), req.WalletAddress)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token":     issued.Token,
		"tokenType": "Bearer",
		"expiresIn": h.deps.Sessions.TTLSeconds(),
		"session":   issued.Session,
	})
}

func (h *handlers) currentSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session": sessionFrom(c)})
}

func (h *handlers) disconnect(c *gin.Context) {
	owner := ownerFrom(c)
	if err := h.deps.Sessions.Disconnect(c.Request.Context(), tokenFrom(c)); err != nil {
		h.fail(c, err)
		return
	}
	h.deps.Wizards.Drop(owner)
	h.deps.Purchases.Drop(owner)
	c.Status(http.StatusNoContent)
}
