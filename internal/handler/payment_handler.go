package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/service"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/response"
)

// PaymentHandler handles package purchases.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

type checkoutRequest struct {
	PackageName string `json:"package_name" binding:"required"`
}

type confirmRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Packages godoc
// @Summary List purchasable member packages
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /payments/packages [get]
func (h *PaymentHandler) Packages(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Packages(), nil)
}

// Checkout godoc
// @Summary Open a checkout session for a package
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body checkoutRequest true "Checkout payload"
// @Success 201 {object} response.Envelope
// @Router /payments/checkout [post]
func (h *PaymentHandler) Checkout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.service.CreateCheckoutSession(c.Request.Context(), claims.Email, req.PackageName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Confirm godoc
// @Summary Confirm a completed checkout session
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body confirmRequest true "Confirm payload"
// @Success 200 {object} response.Envelope
// @Router /payments/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payment, err := h.service.Confirm(c.Request.Context(), req.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// History godoc
// @Summary List the caller's payments
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	payments, err := h.service.History(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, nil)
}
