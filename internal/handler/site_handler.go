package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/service"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
	"github.com/nwced/clc-registry-api/pkg/response"
)

// SiteHandler wires HTTP endpoints to the site service and the
// site-scoped sub-resources.
type SiteHandler struct {
	sites      *service.SiteService
	staff      *service.StaffService
	assets     *service.AssetService
	programs   *service.ProgramService
	activities *service.ActivityService
}

// NewSiteHandler creates a new handler.
func NewSiteHandler(sites *service.SiteService, staff *service.StaffService, assets *service.AssetService, programs *service.ProgramService, activities *service.ActivityService) *SiteHandler {
	return &SiteHandler{sites: sites, staff: staff, assets: assets, programs: programs, activities: activities}
}

// List godoc
// @Summary List sites
// @Description List sites with optional filters and pagination
// @Tags Sites
// @Produce json
// @Param search query string false "Match against name or site id"
// @Param district query string false "District filter"
// @Param type query string false "Site type filter"
// @Param operational_status query string false "Operational status filter"
// @Param assessment_status query string false "Assessment status filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /sites [get]
func (h *SiteHandler) List(c *gin.Context) {
	filter := models.SiteFilter{
		Search:            c.Query("search"),
		District:          c.Query("district"),
		Type:              c.Query("type"),
		OperationalStatus: c.Query("operational_status"),
		AssessmentStatus:  c.Query("assessment_status"),
		Page:              queryInt(c, "page"),
		PageSize:          queryInt(c, "page_size"),
		SortBy:            c.Query("sort_by"),
		SortOrder:         c.Query("sort_order"),
	}

	sites, pagination, err := h.sites.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sites, pagination)
}

// Get godoc
// @Summary Get site
// @Tags Sites
// @Produce json
// @Param id path int true "Site id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sites/{id} [get]
func (h *SiteHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid site id"))
		return
	}
	site, err := h.sites.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, site, nil)
}

// Create godoc
// @Summary Register site
// @Tags Sites
// @Accept json
// @Produce json
// @Param payload body service.CreateSiteRequest true "Site payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sites [post]
func (h *SiteHandler) Create(c *gin.Context) {
	var req service.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid site payload"))
		return
	}

	site, err := h.sites.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, site)
}

// Update godoc
// @Summary Update site
// @Description Partial update; absent fields keep their stored values
// @Tags Sites
// @Accept json
// @Produce json
// @Param id path int true "Site id"
// @Param payload body models.SitePatch true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sites/{id} [put]
func (h *SiteHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid site id"))
		return
	}

	var patch models.SitePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid site payload"))
		return
	}

	site, err := h.sites.Update(c.Request.Context(), id, patch, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, site, nil)
}

// Delete godoc
// @Summary Delete site
// @Tags Sites
// @Param id path int true "Site id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sites/{id} [delete]
func (h *SiteHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid site id"))
		return
	}
	if err := h.sites.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RecordVisit godoc
// @Summary Record site visit
// @Description Stamp visit metadata on the site and append a visit activity
// @Tags Sites
// @Accept json
// @Produce json
// @Param id path int true "Site id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sites/{id}/visit [post]
func (h *SiteHandler) RecordVisit(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid site id"))
		return
	}

	var payload struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&payload)

	site, err := h.sites.RecordVisit(c.Request.Context(), id, actorID(c), payload.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, site, nil)
}

// Staff godoc
// @Summary List staff assigned to a site
// @Tags Sites
// @Produce json
// @Param id path int true "Site id"
// @Success 200 {object} response.Envelope
// @Router /sites/{id}/staff [get]
func (h *SiteHandler) Staff(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid site id"))
		return
	}
	rows, err := h.staff.GetBySite(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Assets godoc
// @Summary List assets assigned to a site
// @Tags Sites
// @Produce json
// @Param id path int true "Site id"
// @Success 200 {object} response.Envelope
// @Router /sites/{id}/assets [get]
func (h *SiteHandler) Assets(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid site id"))
		return
	}
	rows, err := h.assets.GetBySite(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Programs godoc
// @Summary List programs hosted at a site
// @Tags Sites
// @Produce json
// @Param id path int true "Site id"
// @Success 200 {object} response.Envelope
// @Router /sites/{id}/programs [get]
func (h *SiteHandler) Programs(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid site id"))
		return
	}
	rows, err := h.programs.GetBySite(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Activities godoc
// @Summary List activities referencing a site
// @Tags Sites
// @Produce json
// @Param id path int true "Site id"
// @Success 200 {object} response.Envelope
// @Router /sites/{id}/activities [get]
func (h *SiteHandler) Activities(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid site id"))
		return
	}
	rows, err := h.activities.GetBySite(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Visits godoc
// @Summary List visit history for a site
// @Tags Sites
// @Produce json
// @Param id path int true "Site id"
// @Success 200 {object} response.Envelope
// @Router /sites/{id}/visits [get]
func (h *SiteHandler) Visits(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid site id"))
		return
	}
	rows, err := h.activities.Visits(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
