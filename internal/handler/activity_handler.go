package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/service"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
	"github.com/nwced/clc-registry-api/pkg/response"
)

// ActivityHandler wires HTTP endpoints to the activity service.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler creates a new handler.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// List godoc
// @Summary List activities
// @Description Newest-first audit trail with optional filters
// @Tags Activities
// @Produce json
// @Param type query string false "Activity type filter"
// @Param related_entity_type query string false "Related entity type filter"
// @Param related_entity_id query int false "Related entity id filter"
// @Param performed_by query int false "Acting user filter"
// @Success 200 {object} response.Envelope
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	filter := models.ActivityFilter{
		Type:              c.Query("type"),
		RelatedEntityType: c.Query("related_entity_type"),
		RelatedEntityID:   queryInt64Ptr(c, "related_entity_id"),
		PerformedBy:       queryInt64Ptr(c, "performed_by"),
		Page:              queryInt(c, "page"),
		PageSize:          queryInt(c, "page_size"),
	}

	rows, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Get godoc
// @Summary Get activity
// @Tags Activities
// @Produce json
// @Param id path int true "Activity id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /activities/{id} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid activity id"))
		return
	}
	activity, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}

// Create godoc
// @Summary Record activity
// @Description Record a field observation, verification or recommendation
// @Tags Activities
// @Accept json
// @Produce json
// @Param payload body service.CreateActivityRequest true "Activity payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /activities [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	var req service.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid activity payload"))
		return
	}

	activity, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, activity)
}

// UpdateStatus godoc
// @Summary Update recommendation status
// @Description Move a recommendation through Pending, Completed or Discarded
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path int true "Activity id"
// @Param payload body map[string]string true "New status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /activities/{id}/status [put]
func (h *ActivityHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid activity id"))
		return
	}

	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status required"))
		return
	}

	activity, err := h.service.UpdateRecommendationStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}

// Delete godoc
// @Summary Delete recommendation
// @Description Remove a recommendation entry; other activity subtypes are immutable
// @Tags Activities
// @Param id path int true "Activity id"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /activities/{id} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid activity id"))
		return
	}
	if err := h.service.DeleteRecommendation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
