package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/matura-back/internal/auth"
	"github.com/in-nis/matura-back/internal/httpx"
	"github.com/in-nis/matura-back/internal/tutoring"
)

const materialsPath = "/materials"

// ListMaterials godoc
// @Summary      Learning materials
// @Description  Materials grouped by subject, scope, section and category. "_" holds entries without a value.
// @Tags         materials
// @Produce      json
// @Success      200  {object} tutoring.MaterialsTree
// @Security     BearerAuth
// @Router       /materials [get]
func (h *Handler) ListMaterials(c *gin.Context) {
	tree, err := h.svc.MaterialsTree(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetMaterial godoc
// @Summary      Material detail
// @Tags         materials
// @Produce      json
// @Param        id   path  int  true  "Material ID"
// @Success      200  {object} models.Material
// @Failure      404  {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /materials/{id} [get]
func (h *Handler) GetMaterial(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.GetMaterial(c.Request.Context(), id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// AddMaterial godoc
// @Summary      Add material
// @Description  NOTE materials carry text content, VOCABULARY materials parallel word lists
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        body  body  tutoring.MaterialInput  true  "Material"
// @Success      201   {object} models.Material
// @Failure      400   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /materials/add [post]
func (h *Handler) AddMaterial(c *gin.Context) {
	var in tutoring.MaterialInput
	if err := c.ShouldBind(&in); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	m, err := h.svc.AddMaterial(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusCreated, m, materialsPath)
}

// GetVocabulary godoc
// @Summary      Vocabulary by first letter
// @Tags         materials
// @Produce      json
// @Success      200  {array}  tutoring.VocabularyGroup
// @Security     BearerAuth
// @Router       /vocabulary [get]
func (h *Handler) GetVocabulary(c *gin.Context) {
	groups, err := h.svc.Vocabulary(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}
