package handler

import (
	"net/http"

	"parcel-delivery-backend/internal/dto"
	"parcel-delivery-backend/internal/middleware"
	"parcel-delivery-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type ParcelHandler struct {
	parcelService service.ParcelService
}

func NewParcelHandler(parcelService service.ParcelService) *ParcelHandler {
	return &ParcelHandler{
		parcelService: parcelService,
	}
}

func (h *ParcelHandler) BookParcel(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.BookParcelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	// parcels are always booked under the caller's own identity
	if req.SenderEmail == "" {
		req.SenderEmail = middleware.AuthEmail(c)
	} else if req.SenderEmail != middleware.AuthEmail(c) {
		return echo.NewHTTPError(http.StatusForbidden, "cannot book a parcel for another sender")
	}

	parcel, err := h.parcelService.BookParcel(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, parcel)
}

func (h *ParcelHandler) GetParcels(c echo.Context) error {
	ctx := c.Request().Context()

	email, err := middleware.OwnerScope(c, "email")
	if err != nil {
		return err
	}

	parcels, err := h.parcelService.GetParcelsBySender(ctx, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, parcels)
}

func (h *ParcelHandler) GetParcel(c echo.Context) error {
	ctx := c.Request().Context()

	parcel, err := h.parcelService.GetParcel(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	if parcel.SenderEmail != middleware.AuthEmail(c) {
		return echo.NewHTTPError(http.StatusForbidden, "parcel belongs to another sender")
	}

	return c.JSON(http.StatusOK, parcel)
}

func (h *ParcelHandler) UpdateParcel(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateParcelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.parcelService.UpdateDelivery(ctx, c.Param("id"), &req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *ParcelHandler) DeleteParcel(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.parcelService.DeleteParcel(ctx, c.Param("id"), middleware.AuthEmail(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
