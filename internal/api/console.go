package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/matura-back/internal/httpx"
)

// QueryRequest is a raw SQL statement from the admin console.
type QueryRequest struct {
	Query string `form:"query" json:"query"`
}

// RunQuery godoc
// @Summary      Run SQL
// @Description  Admin only. SELECT statements return rows, others the affected row count.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  QueryRequest  true  "SQL"
// @Success      200   {object} console.Result
// @Failure      400   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /baza [post]
func (h *Handler) RunQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBind(&req); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	res, err := h.console.Run(c.Request.Context(), req.Query)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListTables godoc
// @Summary      Database tables
// @Tags         admin
// @Produce      json
// @Success      200  {array}  string
// @Security     BearerAuth
// @Router       /baza/tabele [get]
func (h *Handler) ListTables(c *gin.Context) {
	tables, err := h.console.Tables(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// PreviewTable godoc
// @Summary      First rows of a table
// @Tags         admin
// @Produce      json
// @Param        name  path  string  true  "Table"
// @Success      200   {object} console.Result
// @Failure      404   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /baza/tabele/{name} [get]
func (h *Handler) PreviewTable(c *gin.Context) {
	res, err := h.console.Preview(c.Request.Context(), c.Param("name"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
