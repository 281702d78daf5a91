package handler

import (
	"net/http"

	"parcel-delivery-backend/internal/dto"
	"parcel-delivery-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type RiderHandler struct {
	riderService service.RiderService
}

func NewRiderHandler(riderService service.RiderService) *RiderHandler {
	return &RiderHandler{
		riderService: riderService,
	}
}

func (h *RiderHandler) Apply(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RiderApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	rider, err := h.riderService.Apply(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, rider)
}

func (h *RiderHandler) GetRiders(c echo.Context) error {
	ctx := c.Request().Context()

	riders, err := h.riderService.GetRidersByStatus(ctx, c.QueryParam("status"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, riders)
}

func (h *RiderHandler) UpdateRider(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateRiderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.riderService.UpdateStatus(ctx, c.Param("id"), req.Status); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
