package server

import (
	"errors"
	"net/http"

	"parcel-delivery-backend/internal/apperr"
	"parcel-delivery-backend/internal/client"
	"parcel-delivery-backend/internal/handler"
	appmw "parcel-delivery-backend/internal/middleware"
	"parcel-delivery-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo           *echo.Echo
	verifier       client.TokenVerifier
	paymentHandler *handler.PaymentHandler
	parcelHandler  *handler.ParcelHandler
	riderHandler   *handler.RiderHandler
	userHandler    *handler.UserHandler
}

func NewServer(
	verifier client.TokenVerifier,
	paymentService service.PaymentService,
	parcelService service.ParcelService,
	riderService service.RiderService,
	userService service.UserService,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(appmw.MetricsMiddleware())

	e.HTTPErrorHandler = newErrorHandler(e, logger)

	s := &Server{
		echo:           e,
		verifier:       verifier,
		paymentHandler: handler.NewPaymentHandler(paymentService),
		parcelHandler:  handler.NewParcelHandler(parcelService),
		riderHandler:   handler.NewRiderHandler(riderService),
		userHandler:    handler.NewUserHandler(userService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", appmw.PrometheusHandler())

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/users", s.userHandler.SyncUser)
	api.GET("/users/:email", s.userHandler.GetUser)

	api.POST("/riders", s.riderHandler.Apply)

	auth := api.Group("", appmw.RequireAuth(s.verifier))

	auth.GET("/riders", s.riderHandler.GetRiders)
	auth.PATCH("/riders/:id", s.riderHandler.UpdateRider)

	auth.POST("/parcels", s.parcelHandler.BookParcel)
	auth.GET("/parcels", s.parcelHandler.GetParcels)
	auth.GET("/parcels/:id", s.parcelHandler.GetParcel)
	auth.PATCH("/parcels/:id", s.parcelHandler.UpdateParcel)
	auth.DELETE("/parcels/:id", s.parcelHandler.DeleteParcel)

	// -------- checkout --------
	auth.POST("/payments", s.paymentHandler.InitiateCheckout)
	auth.GET("/payments", s.paymentHandler.GetPayments)
	// callback after the client returns from the hosted checkout flow
	api.PATCH("/payments", s.paymentHandler.SettleCheckout)
}

// newErrorHandler maps error kinds onto HTTP statuses and makes sure broken
// settlement invariants are logged where operators will see them.
func newErrorHandler(e *echo.Echo, logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		switch apperr.KindOf(err) {
		case apperr.Validation:
			status = http.StatusBadRequest
		case apperr.Auth:
			status = http.StatusForbidden
		case apperr.NotFound:
			status = http.StatusNotFound
		case apperr.Adapter:
			status = http.StatusBadGateway
		case apperr.Consistency:
			logger.Error("settlement invariant violated",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		default:
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				e.DefaultHTTPErrorHandler(err, c)
				return
			}
		}

		_ = c.JSON(status, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
