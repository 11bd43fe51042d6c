package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/service"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/response"
)

// AssetHandler handles asset inventory endpoints.
type AssetHandler struct {
	service *service.AssetService
	users   *service.UserService
}

// NewAssetHandler constructs an asset handler.
func NewAssetHandler(svc *service.AssetService, users *service.UserService) *AssetHandler {
	return &AssetHandler{service: svc, users: users}
}

func assetFilterFromQuery(c *gin.Context) models.AssetFilter {
	var filter models.AssetFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Type = c.Query("type")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

// List godoc
// @Summary List the caller's asset inventory
// @Tags Assets
// @Produce json
// @Param search query string false "Search keyword"
// @Param type query string false "Filter by product type"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := assetFilterFromQuery(c)
	filter.HREmail = user.Email

	assets, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assets, pagination)
}

// ListAll godoc
// @Summary Browse all registered assets
// @Tags Assets
// @Produce json
// @Param search query string false "Search keyword"
// @Param type query string false "Filter by product type"
// @Param hr_email query string false "Filter by owning HR"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /all-assets [get]
func (h *AssetHandler) ListAll(c *gin.Context) {
	filter := assetFilterFromQuery(c)
	filter.HREmail = c.Query("hr_email")

	assets, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assets, pagination)
}

// Get godoc
// @Summary Get asset by id
// @Tags Assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} response.Envelope
// @Router /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	asset, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, asset, nil)
}

// Create godoc
// @Summary Register a new asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param payload body service.CreateAssetRequest true "Asset payload"
// @Success 201 {object} response.Envelope
// @Router /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	asset, err := h.service.Create(c.Request.Context(), req, user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, asset)
}

// Update godoc
// @Summary Update an asset and propagate product fields
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param payload body service.UpdateAssetRequest true "Asset payload"
// @Success 200 {object} response.Envelope
// @Router /assets/{id} [put]
func (h *AssetHandler) Update(c *gin.Context) {
	var req service.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	asset, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, asset, nil)
}

// Delete godoc
// @Summary Delete an asset and its dependent rows
// @Tags Assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 204
// @Router /assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
