package httpserver

import (
	"net/http"

	"carbonpay/internal/domain"
	onboardingsvc "carbonpay/internal/service/onboarding"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *handlers) onboardingSteps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"steps":   onboardingsvc.Steps(),
		"options": onboardingsvc.FieldOptions(),
	})
}

// submitOnboarding is the one-shot submission call. Validation failures are
// reported in the body with success=false.
func (h *handlers) submitOnboarding(c *gin.Context) {
	var form domain.OnboardingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, http.StatusBadRequest, "invalid onboarding payload")
		return
	}
	res, err := h.deps.Onboarding.Submit(c.Request.Context(), ownerFrom(c), form)
	if err != nil {
		h.logger.Error("onboarding submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) onboardingStatus(c *gin.Context) {
	rec, err := h.deps.Onboarding.Status(c.Request.Context(), ownerFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"completed": rec != nil,
		"message":   onboardingsvc.StatusMessage(rec),
		"record":    rec,
	})
}

// onboardingRecords lists every record; ?first=true returns only the oldest.
func (h *handlers) onboardingRecords(c *gin.Context) {
	if c.Query("first") == "true" {
		rec, err := h.deps.Onboarding.First(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"record": rec, "message": onboardingsvc.StatusMessage(rec)})
		return
	}
	records, err := h.deps.Onboarding.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if records == nil {
		records = []domain.OnboardingRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"results": records, "count": len(records)})
}

func (h *handlers) getWizard(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Wizards.Get(ownerFrom(c)).Snapshot())
}

func (h *handlers) restartWizard(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Wizards.Restart(ownerFrom(c)).Snapshot())
}

func (h *handlers) editWizard(c *gin.Context) {
	var patch onboardingsvc.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "invalid form patch")
		return
	}
	h.wizardResult(c)(h.deps.Wizards.Get(ownerFrom(c)).Edit(patch))
}

func (h *handlers) continueWizard(c *gin.Context) {
	h.wizardResult(c)(h.deps.Wizards.Get(ownerFrom(c)).Continue(c.Request.Context()))
}

func (h *handlers) backWizard(c *gin.Context) {
	h.wizardResult(c)(h.deps.Wizards.Get(ownerFrom(c)).Back())
}

func (h *handlers) wizardResult(c *gin.Context) func(onboardingsvc.Snapshot, error) {
	return func(snap onboardingsvc.Snapshot, err error) {
		if err != nil {
			h.failWith(c, err, "wizard", snap)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}
