package handler

import (
	"net/http"

	"parcel-delivery-backend/internal/dto"
	"parcel-delivery-backend/internal/middleware"
	"parcel-delivery-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// InitiateCheckout starts a hosted checkout for a parcel and returns the
// provider URL the client should redirect to.
func (h *PaymentHandler) InitiateCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.ParcelID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "parcelId is required")
	}

	result, err := h.paymentService.InitiateCheckout(ctx, req.ParcelID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// SettleCheckout is called when the client returns from the hosted flow.
// Safe to call repeatedly for the same session.
func (h *PaymentHandler) SettleCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing session_id")
	}

	result, err := h.paymentService.SettleCheckout(ctx, sessionID)
	if err != nil {
		middleware.RecordSettlement("error")
		return err
	}

	if result.Success {
		middleware.RecordSettlement("settled")
	} else {
		middleware.RecordSettlement("unpaid")
	}

	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) GetPayments(c echo.Context) error {
	ctx := c.Request().Context()

	email, err := middleware.OwnerScope(c, "email")
	if err != nil {
		return err
	}

	payments, err := h.paymentService.GetPaymentsByCustomer(ctx, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payments)
}
