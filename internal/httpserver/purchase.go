package httpserver

import (
	"net/http"

	purchasesvc "carbonpay/internal/service/purchase"
	"github.com/gin-gonic/gin"
)

type selectProjectRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
}

// quantityRequest carries either a number or the raw text typed by the user.
type quantityRequest struct {
	Quantity *float64 `json:"quantity"`
	Input    *string  `json:"input"`
}

func (h *handlers) dialog(c *gin.Context) *purchasesvc.Dialog {
	return h.deps.Purchases.Get(ownerFrom(c))
}

func (h *handlers) purchaseView(c *gin.Context) {
	c.JSON(http.StatusOK, h.dialog(c).View(c.Request.Context()))
}

func (h *handlers) purchaseSelect(c *gin.Context) {
	var req selectProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "projectId is required")
		return
	}
	h.purchaseResult(c)(h.dialog(c).SelectProject(c.Request.Context(), req.ProjectID))
}

func (h *handlers) purchaseQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Quantity == nil && req.Input == nil) {
		writeError(c, http.StatusBadRequest, "quantity or input is required")
		return
	}
	d := h.dialog(c)
	if req.Quantity != nil {
		h.purchaseResult(c)(d.SetQuantityNumber(c.Request.Context(), *req.Quantity))
		return
	}
	h.purchaseResult(c)(d.SetQuantityInput(c.Request.Context(), *req.Input))
}

func (h *handlers) purchaseContinue(c *gin.Context) {
	h.purchaseResult(c)(h.dialog(c).Continue(c.Request.Context()))
}

func (h *handlers) purchaseConfirm(c *gin.Context) {
	receipt, err := h.dialog(c).Confirm(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *handlers) purchaseClose(c *gin.Context) {
	c.JSON(http.StatusOK, h.dialog(c).Close(c.Request.Context()))
}

func (h *handlers) purchaseResult(c *gin.Context) func(purchasesvc.View, error) {
	return func(v purchasesvc.View, err error) {
		if err != nil {
			h.failWith(c, err, "purchase", v)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}
