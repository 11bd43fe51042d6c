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

// RequestHandler handles the asset request lifecycle endpoints.
type RequestHandler struct {
	service *service.RequestService
	users   *service.UserService
}

// NewRequestHandler constructs a request handler.
func NewRequestHandler(svc *service.RequestService, users *service.UserService) *RequestHandler {
	return &RequestHandler{service: svc, users: users}
}

func requestFilterFromQuery(c *gin.Context) models.RequestFilter {
	var filter models.RequestFilter
	filter.Status = models.RequestStatus(c.Query("status"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	return filter
}

// Create godoc
// @Summary Submit an asset request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body service.CreateRequestPayload true "Request payload"
// @Success 201 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		response.Error(c, err)
		return
	}
	var payload service.CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	request, err := h.service.Create(c.Request.Context(), payload, user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// List godoc
// @Summary List requests addressed to the caller
// @Tags Requests
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search by requester"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter := requestFilterFromQuery(c)
	filter.HREmail = claims.Email

	requests, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, pagination)
}

// MyRequests godoc
// @Summary List the caller's own requests
// @Tags Requests
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /my-requests [get]
func (h *RequestHandler) MyRequests(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter := requestFilterFromQuery(c)
	filter.RequesterEmail = claims.Email

	requests, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, pagination)
}

// Approve godoc
// @Summary Approve a pending request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/approve [patch]
func (h *RequestHandler) Approve(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	assignment, err := h.service.Approve(c.Request.Context(), c.Param("id"), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Reject godoc
// @Summary Reject a pending request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/reject [patch]
func (h *RequestHandler) Reject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	request, err := h.service.Reject(c.Request.Context(), c.Param("id"), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}
