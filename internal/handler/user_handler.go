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

// UserHandler handles profile sync and company directory endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler constructs a user handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Create godoc
// @Summary Sync a user profile from the identity provider
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.CreateUserRequest true "User payload"
// @Success 201 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param role query string false "Filter by role"
// @Param company query string false "Filter by company"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter models.UserFilter
	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		filter.Role = &r
	}
	filter.Company = c.Query("company")
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	users, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Me godoc
// @Summary Current user profile
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := currentUser(c, h.service)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Role godoc
// @Summary Resolve the stored role for an email
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} response.Envelope
// @Router /users/role/{email} [get]
func (h *UserHandler) Role(c *gin.Context) {
	role, err := h.service.RoleByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"role": role}, nil)
}

// Companies godoc
// @Summary List distinct HR-owned companies
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /companies [get]
func (h *UserHandler) Companies(c *gin.Context) {
	companies, err := h.service.ListCompanies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, companies, nil)
}

// Employees godoc
// @Summary List employees of the caller's company
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /employees [get]
func (h *UserHandler) Employees(c *gin.Context) {
	user, err := currentUser(c, h.service)
	if err != nil {
		response.Error(c, err)
		return
	}
	employees, err := h.service.ListEmployees(c.Request.Context(), user.CompanyName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, nil)
}

// Birthdays godoc
// @Summary Upcoming birthdays in the caller's company
// @Tags Users
// @Produce json
// @Param days query int false "Window in days" default(30)
// @Success 200 {object} response.Envelope
// @Router /birthdays [get]
func (h *UserHandler) Birthdays(c *gin.Context) {
	user, err := currentUser(c, h.service)
	if err != nil {
		response.Error(c, err)
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	upcoming, err := h.service.UpcomingBirthdays(c.Request.Context(), user.CompanyName, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, upcoming, nil)
}
