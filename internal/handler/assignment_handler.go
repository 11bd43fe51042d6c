package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/service"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/export"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/response"
)

// AssignmentHandler handles assignment listings, returns and projections.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

func assignmentFilterFromQuery(c *gin.Context) models.AssignmentFilter {
	var filter models.AssignmentFilter
	filter.Status = models.AssignmentStatus(c.Query("status"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	return filter
}

// List godoc
// @Summary List assignments created by the caller
// @Tags Assignments
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter := assignmentFilterFromQuery(c)
	filter.HREmail = claims.Email

	assignments, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// MyAssets godoc
// @Summary List assets currently held by the caller
// @Tags Assignments
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /my-assets [get]
func (h *AssignmentHandler) MyAssets(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter := assignmentFilterFromQuery(c)
	filter.EmployeeEmail = claims.Email

	assignments, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// Return godoc
// @Summary Mark an assignment as returned
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/return [patch]
func (h *AssignmentHandler) Return(c *gin.Context) {
	assignment, err := h.service.Return(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Aggregate godoc
// @Summary Per-employee assignment counts for the caller
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments/aggregate [get]
func (h *AssignmentHandler) Aggregate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	summaries, cacheHit, err := h.service.AggregateByEmployee(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil, map[string]interface{}{"cache_hit": cacheHit})
}

// Export godoc
// @Summary Download the caller's assignment report
// @Tags Assignments
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /assignments/export [get]
func (h *AssignmentHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format := export.Format(c.DefaultQuery("format", string(export.FormatCSV)))
	payload, err := h.service.Export(c.Request.Context(), claims.Email, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Blob(c, format.ContentType(), service.ExportFilename(format), payload)
}

// History godoc
// @Summary Resolved request history for an employee joined with live assets
// @Tags Assignments
// @Produce json
// @Param email path string true "Employee email"
// @Success 200 {object} response.Envelope
// @Router /asset-history/{email} [get]
func (h *AssignmentHandler) History(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email is required"))
		return
	}
	items, err := h.service.EmployeeHistory(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
