package httpserver

import (
	"net/http"

	"carbonpay/internal/domain"
	"carbonpay/internal/money"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type projectView struct {
	domain.Project
	PriceDisplay string `json:"priceDisplay"`
}

type projectDetailsView struct {
	domain.ProjectDetails
	PriceDisplay         string `json:"priceDisplay"`
	CreditsIssuedDisplay string `json:"creditsIssuedDisplay"`
	CO2ReductionDisplay  string `json:"co2ReductionDisplay"`
}

func (h *handlers) toProjectView(p domain.Project) projectView {
	return projectView{Project: p, PriceDisplay: money.Format(p.PricePerTon, h.currency)}
}

func (h *handlers) listProjects(c *gin.Context) {
	projects, err := h.deps.Catalog.ListProjects(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]projectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, h.toProjectView(p))
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "count": len(out)})
}

func (h *handlers) getProject(c *gin.Context) {
	p, err := h.deps.Catalog.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Warn("project lookup failed", zap.String("project", c.Param("id")), zap.Error(err))
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toProjectView(*p))
}

func (h *handlers) getProjectDetails(c *gin.Context) {
	d, err := h.deps.Catalog.GetProjectDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Warn("project details lookup failed", zap.String("project", c.Param("id")), zap.Error(err))
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, projectDetailsView{
		ProjectDetails:       *d,
		PriceDisplay:         money.Format(d.PricePerTon, h.currency),
		CreditsIssuedDisplay: money.Tons(d.CreditsIssued),
		CO2ReductionDisplay:  money.Tons(d.CO2Reduction) + " tCO2e",
	})
}
