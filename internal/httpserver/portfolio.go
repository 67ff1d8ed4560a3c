package httpserver

import (
	"bytes"
	"fmt"
	"net/http"

	exportsvc "carbonpay/internal/service/export"
	"github.com/gin-gonic/gin"
)

func (h *handlers) dashboard(c *gin.Context) {
	d, err := h.deps.Portfolio.Dashboard(c.Request.Context(), ownerFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) assets(c *gin.Context) {
	a, err := h.deps.Portfolio.Assets(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) emissions(c *gin.Context) {
	e, err := h.deps.Portfolio.Emissions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handlers) exportAssets(c *gin.Context) {
	format, err := exportsvc.ParseFormat(c.Query("format"))
	if err != nil {
		h.fail(c, err)
		return
	}
	a, err := h.deps.Portfolio.Assets(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.sendExport(c, format, "carbon-credits", exportsvc.CreditsTable(a))
}

func (h *handlers) exportEmissions(c *gin.Context) {
	format, err := exportsvc.ParseFormat(c.Query("format"))
	if err != nil {
		h.fail(c, err)
		return
	}
	e, err := h.deps.Portfolio.Emissions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.sendExport(c, format, "emissions", exportsvc.EmissionsTable(e))
}

func (h *handlers) sendExport(c *gin.Context, format exportsvc.Format, base string, table exportsvc.Table) {
	var buf bytes.Buffer
	if err := exportsvc.Write(&buf, format, table); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename(base)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
