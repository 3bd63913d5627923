package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/service"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
	"github.com/nwced/clc-registry-api/pkg/response"
)

// ExportHandler exposes dataset export generation and download.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Generate godoc
// @Summary Export a register
// @Description Render one register as CSV or PDF and return a signed download link
// @Tags Exports
// @Produce json
// @Param entity path string true "Register to export" Enums(site, staff, asset, program)
// @Param format query string false "Output format" Enums(csv, pdf) default(csv)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exports/{entity} [get]
func (h *ExportHandler) Generate(c *gin.Context) {
	entity, err := models.ParseEntityType(c.Param("entity"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unknown export entity"))
		return
	}
	format := c.DefaultQuery("format", service.ExportFormatCSV)

	result, err := h.service.Generate(c.Request.Context(), entity, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download an export
// @Description Stream a previously generated export via its signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "download token required"))
		return
	}

	file, relPath, err := h.service.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(relPath)))
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", file, nil)
}
