package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/service"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
	"github.com/nwced/clc-registry-api/pkg/response"
)

// AssetHandler wires HTTP endpoints to the asset service.
type AssetHandler struct {
	service *service.AssetService
}

// NewAssetHandler creates a new handler.
func NewAssetHandler(svc *service.AssetService) *AssetHandler {
	return &AssetHandler{service: svc}
}

// List godoc
// @Summary List assets
// @Tags Assets
// @Produce json
// @Param search query string false "Match against name or asset id"
// @Param category query string false "Category filter"
// @Param condition query string false "Condition filter"
// @Param site_id query int false "Assigned site filter"
// @Success 200 {object} response.Envelope
// @Router /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	filter := models.AssetFilter{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		Condition: c.Query("condition"),
		SiteID:    queryInt64Ptr(c, "site_id"),
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "page_size"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	rows, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Get godoc
// @Summary Get asset
// @Tags Assets
// @Produce json
// @Param id path int true "Asset id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid asset id"))
		return
	}
	asset, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, asset, nil)
}

// Create godoc
// @Summary Register asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param payload body service.CreateAssetRequest true "Asset payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid asset payload"))
		return
	}

	asset, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, asset)
}

// Update godoc
// @Summary Update asset
// @Description Partial update; absent fields keep their stored values
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path int true "Asset id"
// @Param payload body models.AssetPatch true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assets/{id} [put]
func (h *AssetHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid asset id"))
		return
	}

	var patch models.AssetPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid asset payload"))
		return
	}

	asset, err := h.service.Update(c.Request.Context(), id, patch, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, asset, nil)
}

// Delete godoc
// @Summary Delete asset
// @Tags Assets
// @Param id path int true "Asset id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid asset id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
